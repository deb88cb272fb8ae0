package misc

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/diarynotes/internal/telemetry/tracing"
	"github.com/2beens/diarynotes/pkg"
)

const welcomeMessage = "Welcome to the Diary Notes backend!"

type HealthResponse struct {
	Status string `json:"status"`
}

// Handler serves the routes that never touch note storage.
type Handler struct {
	versionInfo string
}

func NewHandler(versionInfo string) *Handler {
	return &Handler{
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET").Name("root")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, welcomeMessage)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	pkg.WriteJSON(w, http.StatusOK, HealthResponse{Status: "OK"})
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
