package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/stagecopy/logger"
)

var _ = Describe("Logger", func() {
	var (
		l         *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	BeforeEach(func() {
		l = logger.NewWebLogger("test-service", "debug", true, nil)
		logOutput = bytes.NewBufferString("")
		l.SetOutput(logOutput)
	})

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	It("Should have `test-service` as service name", func() {
		l.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		l.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		l.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		l.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		l.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})

	It("Should carry fields added via WithField", func() {
		l.WithField("runId", "abc123").Info("Testing")
		actual := decode()
		Expect(actual["runId"]).To(Equal("abc123"))
		Expect(actual["service"]).To(Equal("test-service"))
	})
})
