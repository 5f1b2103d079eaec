package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{" warn ", WarnLevel},
		{"warning", WarnLevel},
		{"Error", ErrorLevel},
		{"fatal", FatalLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDefaultLoggerLevelGating(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo(&out, &errOut)
	l.SetLevel(WarnLevel)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "[WARN] shown")
}

func TestDefaultLoggerFields(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo(&out, &errOut)

	scoped := l.WithFields(Fields{"component": "compositor"})
	scoped.Info("stage done", Fields{"cells": 5184})

	got := out.String()
	assert.Contains(t, got, "stage done")
	assert.Contains(t, got, "component:compositor")
	assert.Contains(t, got, "cells:5184")
}

func TestDefaultLoggerError(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo(&out, &errOut)

	l.Error(errors.New("boom"), "render failed")

	assert.Contains(t, errOut.String(), "[ERROR] render failed: boom")
}

func TestDefaultLoggerFatalDoesNotExitInTests(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo(&out, &errOut)

	l.Fatal(errors.New("boom"), "cannot continue")

	assert.Contains(t, errOut.String(), "[FATAL] cannot continue: boom")
}

func TestContextFields(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo(&out, &errOut)

	ctx := ContextWithFields(context.Background(), Fields{"run": "abc"})
	l.WithContext(ctx).Info("picked up")

	assert.Contains(t, out.String(), "run:abc")

	_, ok := FieldsFromContext(context.Background())
	assert.False(t, ok)
}

func TestNoOpLogger(t *testing.T) {
	t.Parallel()

	var n NoOpLogger
	assert.Same(t, &n, n.WithFields(Fields{"k": "v"}))
	assert.Same(t, &n, n.WithContext(context.Background()))
	// Nothing to assert beyond not panicking.
	n.Debug("x")
	n.Fatal(errors.New("boom"), "x")
}

func TestSetGlobalLoggerNilFallsBackToNoOp(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
}
