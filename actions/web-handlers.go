package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

// RequestRunnableRun is the body of a request to run a macro.
type RequestRunnableRun struct {
	ProjectKey   string                 `json:"projectKey"`
	Config       map[string]interface{} `json:"config"`
	PluginConfig map[string]interface{} `json:"pluginConfig"`
}

type ResponseRunnableRun struct {
	Status  WebServerResponse `json:"status"`
	RunId   string            `json:"runId,omitempty"`
	Message string            `json:"message"`
}

// RequestParams is the body of a request to compute dynamic parameter choices.
type RequestParams struct {
	Payload      map[string]interface{} `json:"payload"`
	Config       map[string]interface{} `json:"config"`
	PluginConfig map[string]interface{} `json:"pluginConfig"`
	Inputs       map[string]interface{} `json:"inputs"`
}

type ResponseParams struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message,omitempty"`
	Choices []Choice          `json:"choices"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default: // a stop is already pending.
		}
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerRunnableRun(log logger.Logger, deps PluginDependencies) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["runnableId"]
		req := RequestRunnableRun{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logAndRespond(log, http.StatusBadRequest, w,
				ResponseRunnableRun{Status: Error, Message: fmt.Sprintf("error unmarshalling JSON: %v", err)})
			return
		}
		fn, err := GetRunnable(id)
		if err != nil {
			logAndRespond(log, http.StatusNotFound, w, ResponseRunnableRun{Status: Error, Message: err.Error()})
			return
		}
		// The bridge serves the one project loaded at start up.
		projectKey := req.ProjectKey
		if deps.Datasets != nil {
			served := deps.Datasets.ProjectKey()
			if projectKey != "" && projectKey != served {
				logAndRespond(log, http.StatusBadRequest, w, ResponseRunnableRun{Status: Error,
					Message: fmt.Sprintf("unknown project %q: this server serves project %q", projectKey, served)})
				return
			}
			projectKey = served
		}
		rf, err := fn(projectKey, req.Config, req.PluginConfig, deps)
		if err != nil {
			logAndRespond(log, statusForError(err), w, ResponseRunnableRun{Status: Error, Message: err.Error()})
			return
		}
		msg, err := rf.Run(r.Context(), nil)
		if err != nil {
			logAndRespond(log, statusForError(err), w, ResponseRunnableRun{Status: Error, RunId: rf.RunId, Message: err.Error()})
			return
		}
		respond(log, w, http.StatusOK, ResponseRunnableRun{Status: Okay, RunId: rf.RunId, Message: msg})
	}
}

func GetHandlerParams(log logger.Logger, deps PluginDependencies) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["resolverId"]
		req := RequestParams{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logAndRespond(log, http.StatusBadRequest, w,
				ResponseParams{Status: Error, Message: fmt.Sprintf("error unmarshalling JSON: %v", err), Choices: []Choice{}})
			return
		}
		fn, err := GetParamResolver(id)
		if err != nil {
			logAndRespond(log, http.StatusNotFound, w, ResponseParams{Status: Error, Message: err.Error(), Choices: []Choice{}})
			return
		}
		res, err := fn(r.Context(), req.Payload, req.Config, req.PluginConfig, deps)
		if err != nil {
			logAndRespond(log, statusForError(err), w, ResponseParams{Status: Error, Message: err.Error(), Choices: []Choice{}})
			return
		}
		respond(log, w, http.StatusOK, ResponseParams{Status: Okay, Choices: res.Choices})
	}
}

// statusForError maps validation problems to 400 and everything else to 500.
func statusForError(err error) int {
	var v helper.ValidationError
	if errors.As(err, &v) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// logAndRespond will log the failure, write the status code and r to w.
func logAndRespond(log logger.Logger, status int, w http.ResponseWriter, r interface{}) {
	log.Error(fmt.Sprintf("HTTP %v: %+v", status, r))
	respond(log, w, status, r)
}

// respond will marshal i to JSON and write it to w with the given status.
func respond(log logger.Logger, w http.ResponseWriter, status int, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = fmt.Fprint(w, string(j))
	if err != nil {
		log.Error(err)
	}
}
