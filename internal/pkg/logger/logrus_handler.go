package logger

import (
	"context"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// logrusHandler is a slog.Handler that writes through a logrus logger.
type logrusHandler struct {
	log    *logrus.Logger
	attrs  logrus.Fields
	groups []string
}

func newLogrusHandler(l *logrus.Logger) *logrusHandler {
	return &logrusHandler{log: l, attrs: logrus.Fields{}}
}

func (h *logrusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.log.IsLevelEnabled(toLogrusLevel(level))
}

func (h *logrusHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(logrus.Fields, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		h.addAttr(fields, h.groups, a)
		return true
	})

	entry := h.log.WithFields(fields)
	if !r.Time.IsZero() {
		entry = entry.WithTime(r.Time)
	}
	entry.Log(toLogrusLevel(r.Level), r.Message)
	return nil
}

func (h *logrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		h.addAttr(next.attrs, next.groups, a)
	}
	return next
}

func (h *logrusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *logrusHandler) clone() *logrusHandler {
	attrs := make(logrus.Fields, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &logrusHandler{
		log:    h.log,
		attrs:  attrs,
		groups: append([]string(nil), h.groups...),
	}
}

func (h *logrusHandler) addAttr(fields logrus.Fields, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.addAttr(fields, sub, ga)
		}
		return
	}
	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	fields[key] = a.Value.Any()
}
