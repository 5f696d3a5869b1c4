package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/logger"
	"github.com/nats-io/nats.go"
)

// SubjectAll matches the results of every session.
const SubjectAll = "screencal.*.result"

var ErrNoConnection = errors.New("nats connection is required")

// SubjectForSession returns the result subject of a session.
// Example: "screencal.6f1c1f64-....result"
func SubjectForSession(session string) string {
	return fmt.Sprintf("screencal.%s.result", session)
}

// Envelope is the published message body.
type Envelope struct {
	Session     string             `json:"session"`
	CompletedAt time.Time          `json:"completedAt"`
	Result      calibration.Result `json:"result"`
}

// Publisher sends the result of one calibration session.
type Publisher struct {
	nc      *nats.Conn
	session string
	now     func() time.Time
}

// NewPublisher creates a publisher with a fresh session id.
func NewPublisher(nc *nats.Conn) (*Publisher, error) {
	if nc == nil {
		return nil, ErrNoConnection
	}
	return &Publisher{nc: nc, session: uuid.NewString(), now: time.Now}, nil
}

// Session returns the session id used in the subject.
func (p *Publisher) Session() string { return p.session }

// Subject returns the subject results are published on.
func (p *Publisher) Subject() string { return SubjectForSession(p.session) }

// Publish sends the result and flushes so it is on the wire before return.
func (p *Publisher) Publish(r calibration.Result) error {
	data, err := json.Marshal(Envelope{
		Session:     p.session,
		CompletedAt: p.now().UTC(),
		Result:      r,
	})
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	if err := p.nc.Publish(p.Subject(), data); err != nil {
		return fmt.Errorf("publishing result: %w", err)
	}
	if err := p.nc.Flush(); err != nil {
		return fmt.Errorf("flushing result: %w", err)
	}
	logger.Info("Published result to %s", p.Subject())
	return nil
}

// Subscribe calls fn for every envelope on subject. Messages that do not
// decode are logged and skipped.
func Subscribe(nc *nats.Conn, subject string, fn func(Envelope)) (*nats.Subscription, error) {
	if nc == nil {
		return nil, ErrNoConnection
	}
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			logger.Warn("Skipping malformed message on %s: %v", msg.Subject, err)
			return
		}
		fn(env)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return sub, nil
}
