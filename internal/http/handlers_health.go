package httpx

import (
	"encoding/json"
	"net/http"
)

// HealthInfo describes the session wiring reported by /healthz.
type HealthInfo struct {
	Issuer  string `json:"issuer,omitempty"`
	Storage string `json:"storage,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	HealthInfo
}

// healthHandler answers readiness checks with the provider issuer and session
// storage backend in use. HEAD gets headers only.
func healthHandler(info HealthInfo) http.HandlerFunc {
	body, err := json.Marshal(healthResponse{Status: "ok", HealthInfo: info})
	if err != nil {
		body = []byte(`{"status":"ok"}`)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		// Nothing more to do if the client connection is gone.
		_, _ = w.Write(body)
	}
}
