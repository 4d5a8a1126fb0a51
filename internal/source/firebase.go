package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

const defaultFirebaseTimeout = 10 * time.Second

// snapshotRef is the part of *db.Ref the reader needs.
type snapshotRef interface {
	Get(ctx context.Context, v interface{}) error
}

// Firebase reads the Realtime Database root, where the meter keeps POWER and
// CURRENT_DATA side by side, in a single request per snapshot.
type Firebase struct {
	ref     snapshotRef
	timeout time.Duration
}

// NewFirebase opens the database at databaseURL. credentialsFile is a service
// account key; empty falls back to application default credentials. An
// http:// URL with a ?ns= parameter targets the local emulator.
func NewFirebase(ctx context.Context, databaseURL, credentialsFile string, timeout time.Duration) (*Firebase, error) {
	if databaseURL == "" {
		return nil, errors.New("firebase: empty database url")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: database client: %w", err)
	}
	return newFirebase(client.NewRef("/"), timeout), nil
}

func newFirebase(ref snapshotRef, timeout time.Duration) *Firebase {
	if timeout <= 0 {
		timeout = defaultFirebaseTimeout
	}
	return &Firebase{ref: ref, timeout: timeout}
}

func (f *Firebase) Read(ctx context.Context) (Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var root map[string]json.RawMessage
	if err := f.ref.Get(ctx, &root); err != nil {
		return nil, unavailable(err)
	}
	raw := make(map[domain.Channel]string, len(domain.Channels))
	for _, ch := range domain.Channels {
		if v, ok := root[string(ch)]; ok {
			raw[ch] = string(v)
		}
	}
	return collect(raw)
}
