package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"
)

var (
	fileEncrKey = []byte("Qk7#tz!Wm2@rVx9&Lp4*Sg6^Nd8(Hc3)")
)

// EncryptedFile stores bytes AES-GCM encrypted and base64 encoded on disk.
type EncryptedFile struct {
	Dirname    string
	FileName   string
	FilePrefix string
	FileExt    string
	FullPath   string
	mu         sync.Mutex
}

func NewEncryptedFileWithDir(dirName string, filename string) *EncryptedFile {
	f := &EncryptedFile{Dirname: dirName, FileName: filename}
	f.FullPath = path.Join(dirName, filename)
	f.FileExt = strings.TrimLeft(path.Ext(filename), ".")
	f.FilePrefix = strings.TrimSuffix(f.FileName, "."+f.FileExt)
	return f
}

func (f *EncryptedFile) Set(text []byte) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, err := aes.NewCipher(fileEncrKey)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	// The nonce is prepended to the sealed bytes so Decrypt can find it.
	sealedBytes := gcm.Seal(nonce, nonce, text, nil)
	// Encode to b64.
	b64 := base64.StdEncoding.EncodeToString(sealedBytes)
	// Create the config file if required.
	if !fileExists(f.FullPath) { // if the file does not exist...
		if err := makeDir(f.Dirname); err != nil { // if we could not create the config directory...
			return err
		}
	}
	err = ioutil.WriteFile(f.FullPath, []byte(b64), 0600)
	if err != nil {
		return err
	}
	return nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

func (f *EncryptedFile) Get() (text []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !fileExists(f.FullPath) { // if the file does not exist...
		return nil, FileNotFoundError{f.FullPath}
	}
	// Read b64 file contents.
	b64, err := ioutil.ReadFile(f.FullPath)
	if err != nil {
		return nil, err
	}
	cipherText, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, err
	}
	return Decrypt(cipherText, fileEncrKey)
}

func Decrypt(text []byte, key []byte) ([]byte, error) {
	// Decrypt bytes.
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(text) < nonceSize {
		return nil, fmt.Errorf("encrypted text is too short")
	}
	nonce, cipherText := text[:nonceSize], text[nonceSize:]
	b, err := gcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return nil, err
	}
	// Return plaintext bytes.
	return b, nil
}
