// Package inventory holds the asset, service ticket, audit log and location stores.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"itam-backend/internal/apperr"
	"itam-backend/internal/metrics"
	"itam-backend/internal/models"

	"gorm.io/gorm"
)

// Actor is the authenticated caller recorded in update logs.
type Actor struct {
	UserID uint
	Name   string
	Role   models.UserRole
}

func ActorFromUser(u models.User) Actor {
	return Actor{UserID: u.ID, Name: u.DisplayName(), Role: u.Role}
}

// Notifier receives audit entries after their transaction commits.
type Notifier interface {
	Notify(ctx context.Context, entry models.UpdateLog)
}

type Option func(*options)

type options struct {
	notifier Notifier
	sharedIP map[string]struct{}
}

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithSharedIPCategories lists category codes whose assets may reuse an IP address.
func WithSharedIPCategories(categories ...string) Option {
	return func(o *options) {
		o.sharedIP = make(map[string]struct{}, len(categories))
		for _, c := range categories {
			if c = normalizeCategory(c); c != "" {
				o.sharedIP[c] = struct{}{}
			}
		}
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) sharesIP(category string) bool {
	_, ok := o.sharedIP[normalizeCategory(category)]
	return ok
}

func (o options) committed(ctx context.Context, entry models.UpdateLog) {
	metrics.RecordMutation(entry.Action)
	if o.notifier != nil {
		o.notifier.Notify(ctx, entry)
	}
}

func normalizeCategory(c string) string {
	return strings.ToUpper(strings.Join(strings.Fields(c), " "))
}

// notFound turns gorm.ErrRecordNotFound into a NotFound error naming what.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound, what+" not found", err)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// translate maps persistence errors onto the API error kinds.
func translate(op string, err error) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.NotFound, op+": not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.Conflict, op+": duplicate value", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.InvalidInput, op+": referenced record does not exist", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
