package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
)

type WebServerConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Scheme           string `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP `errorTxt:"address" mandatory:"no"`
	Port             int    `errorTxt:"port" mandatory:"no"`
	Connections      ConnectionLoader
	Datasets         DatasetLookup
	StackDumpOnPanic bool
}

func RunWebServer(web *WebServerConfig) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	err := helper.ValidateStructIsPopulated(web)
	if err != nil {
		return err
	}
	if web.Datasets == nil {
		return helper.NewValidationError("please supply a project file")
	}
	if web.Port == 0 {
		web.Port = constants.WebServerDefaultPort
	}
	log := logger.NewWebLogger("stagecopy", web.LogLevel, web.StackDumpOnPanic, nil)
	srv, chanStopServer := runServer(log, web)
	// Block & wait for completion.
	return waitForServer(log, srv, chanStopServer)
}

// newRouter returns the routes served by the host bridge.
func newRouter(log logger.Logger, web *WebServerConfig, chanStopServer chan string) *mux.Router {
	deps := PluginDependencies{
		Log:      log,
		Datasets: web.Datasets,
		Sql:      NewSqlExecutor(log, web.Connections, web.Datasets),
	}
	r := mux.NewRouter()
	r.HandleFunc("/stop", GetHandlerStopServer(log, chanStopServer))
	r.Path("/health").HandlerFunc(GetHandlerHealth(log))
	r.Path("/runnables/{runnableId}/run").Methods(http.MethodPost).HandlerFunc(GetHandlerRunnableRun(log, deps))
	r.Path("/params/{resolverId}").Methods(http.MethodPost).HandlerFunc(GetHandlerParams(log, deps))
	return r
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
func runServer(log logger.Logger, web *WebServerConfig) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Second * 300, // exports can take a while
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      newRouter(log, web, chanStopServer),
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	scheme := web.Scheme
	if scheme == "" {
		scheme = "http"
	}
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+\) will not be caught.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	fmt.Println() // print new line char for clean looking CLI.
	log.Info("Shutting down web server...")
	wait := time.Second * constants.WebServerDefaultShutdownSeconds
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return srv.Shutdown(ctx) // waits for running exports until the deadline.
}
