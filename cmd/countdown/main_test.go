package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"medications":[{"id":1,"name":"Ravi","medication_name":"Aspirin","dosage":"75mg","frequency":"daily","time":"00:00:00"}]}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), options{baseURL: srv.URL, timeout: time.Second, once: true}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Aspirin")
	assert.Contains(t, out.String(), "00:00:00")
}

func TestRunOnceEmptyAndError(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"medications":[]}`))
	}))
	defer empty.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{baseURL: empty.URL, timeout: time.Second, once: true}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "No medication reminders set.")

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Error fetching medication reminders."}`))
	}))
	defer broken.Close()

	out.Reset()
	assert.Error(t, run(context.Background(), options{baseURL: broken.URL, timeout: time.Second, once: true}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Error loading medications.")
}

func TestRunLiveStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"medications":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, run(ctx, options{baseURL: srv.URL, timeout: time.Second}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "No medication reminders set.")
}

func TestRunRejectsUnknownTimezone(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{baseURL: "http://localhost:3000", timeout: time.Second, timezone: "Mars/Olympus", once: true}, strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}
