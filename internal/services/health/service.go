package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports the state of the API's backing dependencies.
type Service struct {
	DB              Pinger
	Storage         string
	ModelConfigured bool
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
	Model    string `json:"model"`
}

// NewService constructs a new health service. db may be nil when the API
// runs on in-memory repositories.
func NewService(db Pinger, storage string, modelConfigured bool) *Service {
	return &Service{DB: db, Storage: storage, ModelConfigured: modelConfigured}
}

// Status pings the database and summarises configuration. A missing model key
// is reported but does not make the service unhealthy.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Storage: s.Storage, Model: "configured"}
	if st.Storage == "" {
		st.Storage = "local"
	}
	if !s.ModelConfigured {
		st.Model = "missing_api_key"
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Database = "unreachable"
		} else {
			st.Database = "ok"
		}
	}
	return st
}
