// Package events publishes committed audit entries to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"itam-backend/internal/metrics"
	"itam-backend/internal/models"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const SubjectPrefix = "itam.logs."

type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

func Connect(url string, opts ...nats.Option) (*Publisher, error) {
	opts = append([]nats.Option{nats.Name("itam-backend"), nats.MaxReconnects(-1)}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}
	return &Publisher{conn: nc, js: js}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Subject maps an audit action onto a NATS subject, e.g. "SERVICE CREATE" -> itam.logs.service_create.
func Subject(action string) string {
	return SubjectPrefix + strings.ToLower(strings.ReplaceAll(action, " ", "_"))
}

func (p *Publisher) Publish(ctx context.Context, entry models.UpdateLog) error {
	if p == nil {
		return errors.New("nil publisher")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject(entry.Action), data, nats.Context(ctx))
	return err
}

// Notify publishes in the background. The entry is already committed, so
// a broker outage is logged and counted, never surfaced to the caller.
func (p *Publisher) Notify(ctx context.Context, entry models.UpdateLog) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := p.Publish(pubCtx, entry); err != nil {
			metrics.EventsFailed.Inc()
			log.Warn().Err(err).Str("action", entry.Action).Str("barcode", entry.AssetBarcode).Msg("publish audit event")
		}
	}()
}
