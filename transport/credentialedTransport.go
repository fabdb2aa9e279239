package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

var log = logger.GetOrCreate("transport")

// Backoff delays for transient upstream failures. The last entry repeats when
// the attempt bound exceeds the table length.
var retryDelays = []time.Duration{
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

// jitterFactor is the ±percentage of jitter applied to backoff delays
const jitterFactor = 0.2

// HTTP status codes considered transient and worth retrying
var retryableStatusCodes = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

type credentialedTransport struct {
	graphQLEndpoint string
	tokenEndpoint   string
	clientID        string
	clientSecret    string
	maxAttempts     int
	client          *http.Client

	mutCredential sync.RWMutex
	credential    string
}

// ArgsCredentialedTransport defines the transport construction arguments
type ArgsCredentialedTransport struct {
	GraphQLEndpoint string
	TokenEndpoint   string
	ClientID        string
	ClientSecret    string
	RequestTimeout  time.Duration
	MaxAttempts     uint32
}

// NewCredentialedTransport creates a transport that lazily acquires an OAuth
// client-credentials bearer token and issues GraphQL POSTs with bounded retry
func NewCredentialedTransport(args ArgsCredentialedTransport) (*credentialedTransport, error) {
	if len(args.GraphQLEndpoint) == 0 {
		return nil, errors.New("empty GraphQL endpoint")
	}
	if len(args.TokenEndpoint) == 0 {
		return nil, errors.New("empty token endpoint")
	}
	if len(args.ClientID) == 0 || len(args.ClientSecret) == 0 {
		return nil, errors.New("missing client credentials")
	}

	maxAttempts := int(args.MaxAttempts)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &credentialedTransport{
		graphQLEndpoint: args.GraphQLEndpoint,
		tokenEndpoint:   args.TokenEndpoint,
		clientID:        args.ClientID,
		clientSecret:    args.ClientSecret,
		maxAttempts:     maxAttempts,
		client: &http.Client{
			Timeout: args.RequestTimeout,
		},
	}, nil
}

// Authenticate acquires a fresh bearer credential from the token endpoint.
// It is called lazily on the first Post and again after a mid-session expiry.
func (t *credentialedTransport) Authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	req.SetBasicAuth(t.clientID, t.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: token endpoint returned status %d", ErrAuthentication, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	token := gjson.GetBytes(body, "access_token")
	if !token.Exists() || len(token.String()) == 0 {
		return fmt.Errorf("%w: token endpoint response carries no access_token", ErrAuthentication)
	}

	t.mutCredential.Lock()
	t.credential = token.String()
	t.mutCredential.Unlock()

	log.Debug("acquired upstream credential")

	return nil
}

// Post sends one GraphQL query, retrying transient failures with capped
// backoff. A rejected credential clears the held token and surfaces as
// ErrCredentialExpired so the caller can re-authenticate and retry once.
func (t *credentialedTransport) Post(ctx context.Context, query string) ([]byte, error) {
	err := t.ensureCredential(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < t.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt - 1)
			log.Debug("retrying upstream call", "attempt", attempt+1, "delay", delay, "error", lastErr)
			err = common.SleepWithContext(ctx, delay)
			if err != nil {
				return nil, err
			}
		}

		body, retryable, callErr := t.doPost(ctx, payload)
		if callErr == nil {
			return body, nil
		}
		if !retryable {
			return nil, callErr
		}

		lastErr = callErr
	}

	return nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

func (t *credentialedTransport) doPost(ctx context.Context, payload []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.graphQLEndpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.currentCredential())

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.clearCredential()
		return nil, false, ErrCredentialExpired
	}

	_, retryable := retryableStatusCodes[resp.StatusCode]
	if retryable {
		return nil, true, fmt.Errorf("transient upstream status %d", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("%w: status %d", ErrQueryRejected, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	// GraphQL-level errors ride on a 200 response and are never retryable
	gqlErrors := gjson.GetBytes(body, "errors")
	if gqlErrors.Exists() && gqlErrors.IsArray() && len(gqlErrors.Array()) > 0 {
		firstMessage := gqlErrors.Array()[0].Get("message").String()
		return nil, false, fmt.Errorf("%w: %s", ErrQueryRejected, firstMessage)
	}

	return body, false, nil
}

func (t *credentialedTransport) ensureCredential(ctx context.Context) error {
	if len(t.currentCredential()) > 0 {
		return nil
	}

	return t.Authenticate(ctx)
}

func (t *credentialedTransport) currentCredential() string {
	t.mutCredential.RLock()
	defer t.mutCredential.RUnlock()

	return t.credential
}

func (t *credentialedTransport) clearCredential() {
	t.mutCredential.Lock()
	t.credential = ""
	t.mutCredential.Unlock()
}

func backoffDelay(failedAttempts int) time.Duration {
	if failedAttempts < 0 {
		failedAttempts = 0
	}
	if failedAttempts >= len(retryDelays) {
		failedAttempts = len(retryDelays) - 1
	}

	base := retryDelays[failedAttempts]
	jitterRange := float64(base) * jitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (t *credentialedTransport) IsInterfaceNil() bool {
	return t == nil
}
