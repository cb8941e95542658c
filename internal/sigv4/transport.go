// Package sigv4 provides an http.RoundTripper that signs outgoing requests
// with AWS Signature Version 4.
//
// The signing algorithm itself is fully delegated to the AWS SDK's signer;
// this package only buffers the request body, computes the payload hash, and
// resolves credentials before each request.
package sigv4

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// emptyPayloadHash is the SHA-256 of a zero-length body, used for
// bodiless requests such as the transport's listening GET.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

var _ http.RoundTripper = (*Transport)(nil)

// Transport signs each request for the configured service and region,
// then delegates to the base round tripper.
type Transport struct {
	base    http.RoundTripper
	creds   aws.CredentialsProvider
	region  string
	service string
	signer  *v4.Signer
	now     func() time.Time
}

// Option customizes a Transport.
type Option func(*Transport)

// WithBase sets the underlying round tripper. Defaults to
// http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithClock overrides the signing timestamp source. Used in tests to get
// deterministic signatures.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) { t.now = now }
}

// New creates a signing transport for the given service and region.
// Credentials are resolved per request so rotating credentials (SSO, STS)
// keep working across a long-lived client.
func New(creds aws.CredentialsProvider, service, region string, opts ...Option) *Transport {
	t := &Transport{
		base:    http.DefaultTransport,
		creds:   creds,
		region:  region,
		service: service,
		signer:  v4.NewSigner(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip signs the request and forwards it to the base transport.
// The incoming request is cloned before mutation, per the RoundTripper
// contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	signed := req.Clone(ctx)

	// SigV4 covers the payload, so the body has to be buffered to hash it.
	hash := emptyPayloadHash
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("sigv4: read request body: %w", err)
		}
		sum := sha256.Sum256(body)
		hash = hex.EncodeToString(sum[:])
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
		signed.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	creds, err := t.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("sigv4: resolve credentials: %w", err)
	}

	if err := t.signer.SignHTTP(ctx, creds, signed, hash, t.service, t.region, t.now().UTC()); err != nil {
		return nil, fmt.Errorf("sigv4: sign request: %w", err)
	}

	return t.base.RoundTrip(signed)
}
