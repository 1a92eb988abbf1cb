package s3file

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestPresignDefaultsToGet(t *testing.T) {
	p := &fakePresigner{}
	client := newTestClient(newFakeAPI(), p)

	url, err := client.Presign(context.Background(), "report.pdf", PresignOptions{})
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if !strings.Contains(url, "method=GET") {
		t.Errorf("URL %q does not carry the GET command", url)
	}
	if p.calls[0] != http.MethodGet {
		t.Errorf("signed %q, want GET", p.calls[0])
	}
	if p.expires[0] != DefaultPresignExpires {
		t.Errorf("expiry = %v, want %v", p.expires[0], DefaultPresignExpires)
	}
}

func TestPresignPutCarriesTypeAndACL(t *testing.T) {
	p := &fakePresigner{}
	client := newTestClient(newFakeAPI(), p)
	ctx := context.Background()

	getURL, err := client.Presign(ctx, "photo.jpg", PresignOptions{})
	if err != nil {
		t.Fatalf("Presign GET: %v", err)
	}
	putURL, err := client.Presign(ctx, "photo.jpg", PresignOptions{
		Method:      http.MethodPut,
		ContentType: "image/jpeg",
		ACL:         "public-read",
	})
	if err != nil {
		t.Fatalf("Presign PUT: %v", err)
	}

	if getURL == putURL {
		t.Error("PUT presign URL matches the GET URL for the same path")
	}
	if !strings.Contains(putURL, "type=image/jpeg") {
		t.Errorf("PUT URL %q does not carry the content type", putURL)
	}
	if !strings.Contains(putURL, "acl=public-read") {
		t.Errorf("PUT URL %q does not carry the ACL", putURL)
	}
}

func TestPresignHeadAndDelete(t *testing.T) {
	p := &fakePresigner{}
	client := newTestClient(newFakeAPI(), p)
	ctx := context.Background()

	if _, err := client.Presign(ctx, "x", PresignOptions{Method: "HEAD"}); err != nil {
		t.Fatalf("Presign HEAD: %v", err)
	}
	if _, err := client.Presign(ctx, "x", PresignOptions{Method: "delete"}); err != nil {
		t.Fatalf("Presign DELETE (lowercase): %v", err)
	}
	if got := p.calls; got[0] != http.MethodHead || got[1] != http.MethodDelete {
		t.Errorf("signed %v, want [HEAD DELETE]", got)
	}
}

func TestPresignUnsupportedMethod(t *testing.T) {
	client := newTestClient(newFakeAPI(), &fakePresigner{})

	_, err := client.Presign(context.Background(), "x", PresignOptions{Method: "PATCH"})
	var ume *UnsupportedMethodError
	if !errors.As(err, &ume) {
		t.Fatalf("Presign(PATCH) = %v, want UnsupportedMethodError", err)
	}
	if ume.Method != "PATCH" {
		t.Errorf("Method = %q, want PATCH", ume.Method)
	}
}

func TestPresignExpiryPrecedence(t *testing.T) {
	p := &fakePresigner{}
	client := NewFromAPI(newFakeAPI(), p, Options{
		Bucket:         "test-bucket",
		PresignExpires: 15 * time.Minute,
	})
	ctx := context.Background()

	// Client-level default applies when the call sets none.
	if _, err := client.Presign(ctx, "x", PresignOptions{}); err != nil {
		t.Fatalf("Presign: %v", err)
	}
	// Per-call expiry wins.
	if _, err := client.Presign(ctx, "x", PresignOptions{Expires: time.Minute}); err != nil {
		t.Fatalf("Presign: %v", err)
	}

	if p.expires[0] != 15*time.Minute {
		t.Errorf("expiry = %v, want 15m", p.expires[0])
	}
	if p.expires[1] != time.Minute {
		t.Errorf("expiry = %v, want 1m", p.expires[1])
	}
}

func TestPresignPerCallClientOptions(t *testing.T) {
	p := &fakePresigner{}
	client := newTestClient(newFakeAPI(), p)

	_, err := client.Presign(context.Background(), "x", PresignOptions{}, Options{PresignExpires: 2 * time.Minute})
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if p.expires[0] != 2*time.Minute {
		t.Errorf("expiry = %v, want the per-call client option to apply", p.expires[0])
	}
}

func TestPresignWithoutPresigner(t *testing.T) {
	client := newTestClient(newFakeAPI(), nil)

	_, err := client.Presign(context.Background(), "x", PresignOptions{})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("Presign without presigner = %v, want BackendError", err)
	}
}
