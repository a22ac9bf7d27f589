package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitescope/internal/manifest"
)

// TestNewSiteReport tests the SiteReport constructor.
func TestNewSiteReport(t *testing.T) {
	t.Parallel()

	report := NewSiteReport("example.org")

	t.Run("sets target", func(t *testing.T) {
		t.Parallel()
		if report.Target != "example.org" {
			t.Errorf("got %q, expected %q", report.Target, "example.org")
		}
	})

	t.Run("starts pending", func(t *testing.T) {
		t.Parallel()
		if report.Status != StatusPending {
			t.Errorf("got %v, expected pending", report.Status)
		}
	})

	t.Run("sets fetch timestamp", func(t *testing.T) {
		t.Parallel()
		if report.FetchedAt.IsZero() {
			t.Error("expected FetchedAt to be set")
		}
		if time.Since(report.FetchedAt) > time.Second {
			t.Error("FetchedAt is too old")
		}
	})
}

// TestSiteReportTransitions tests SetManifest, Succeed and Fail.
func TestSiteReportTransitions(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse([]byte(`{"title":"T","items":[{"title":"a","location":"x"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("success keeps manifest data", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("t")
		r.SetManifest(m)
		r.Succeed(&Display{Title: "T"})

		if r.Status != StatusSucceeded {
			t.Errorf("expected succeeded, got %v", r.Status)
		}
		if r.ItemCount != 1 {
			t.Errorf("expected 1 item, got %d", r.ItemCount)
		}
		if r.ManifestHash != m.Fingerprint() {
			t.Error("expected manifest hash to match fingerprint")
		}
		if r.Title() != "T" {
			t.Errorf("expected title T, got %q", r.Title())
		}
	})

	t.Run("failure clears partial data", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("t")
		r.SetManifest(m)
		r.Fail(errors.New("boom"), "Could not retrieve valid site.json")

		if r.Status != StatusFailed {
			t.Errorf("expected failed, got %v", r.Status)
		}
		if r.Manifest != nil || r.Display != nil {
			t.Error("expected no manifest or display after failure")
		}
		if r.ManifestHash != "" || r.ItemCount != 0 {
			t.Error("expected counters to be reset")
		}
		if r.ErrorDetail != "boom" {
			t.Errorf("expected detail boom, got %q", r.ErrorDetail)
		}
		if r.Title() != "t" {
			t.Errorf("expected title to fall back to target, got %q", r.Title())
		}
	})

	t.Run("steps are recorded in order", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("t")
		r.AddStep("fetch")
		r.AddStep("normalize")
		if strings.Join(r.PerformedSteps, ",") != "fetch,normalize" {
			t.Errorf("unexpected steps %v", r.PerformedSteps)
		}
	})
}

// TestSiteReportJSON tests JSON serialization of a report.
func TestSiteReportJSON(t *testing.T) {
	t.Parallel()

	r := NewSiteReport("t")
	r.Fail(errors.New("boom"), "Could not retrieve valid site.json")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"status":"failed"`) {
		t.Errorf("expected textual status, got %s", s)
	}
	if !strings.Contains(s, `"error":"Could not retrieve valid site.json"`) {
		t.Errorf("expected user-facing error, got %s", s)
	}
	if strings.Contains(s, `"display"`) {
		t.Errorf("expected no display on failure, got %s", s)
	}
}
