package selection

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is the NATS subject selection events are published on.
const DefaultSubject = "topiccloud.selection"

// Conn is the part of *nats.Conn used by Publisher.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher publishes selection events as JSON to a message bus.
type Publisher struct {
	conn    Conn
	subject string
	logger  *log.Logger
}

// NewPublisher returns a publisher on subject. An empty subject means
// DefaultSubject; a nil logger means log.Default().
func NewPublisher(conn Conn, subject string, logger *log.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}
}

// Subject returns the subject events are published on.
func (p *Publisher) Subject() string { return p.subject }

// Publish sends ev.
func (p *Publisher) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode selection event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Callback returns a Dispatcher callback publishing an event for each
// click on d's words. Publish errors are logged; a click never fails
// because the bus is down.
func (p *Publisher) Callback(d *Dispatcher) func(int) {
	return func(i int) {
		ev, err := d.Event(i)
		if err != nil {
			return
		}
		if err := p.Publish(ev); err != nil {
			p.logger.Warn("selection event not published", "index", i, "error", err)
		}
	}
}

// NATSConfig configures the connection made by ConnectNATS.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// ConnectNATS connects to a NATS server, logging connection state changes.
func ConnectNATS(cfg NATSConfig, logger *log.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = 10
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	options := []nats.Option{
		nats.Name("topiccloud"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}

var _ Conn = (*nats.Conn)(nil)
