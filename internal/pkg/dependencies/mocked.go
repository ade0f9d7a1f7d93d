package dependencies

import (
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/jonboulle/clockwork"

	"github.com/datasheet-tools/settings-generator/internal/pkg/api/datasheet"
	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem/aferofs"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/options"
)

const (
	MockedHost  = "https://mocked.transport.http/fusion/v1"
	MockedToken = "my-secret-token"
)

// Mocked dependencies for tests.
// The filesystem is in memory, the clock is fake and HTTP requests go to the mocked transport.
type Mocked interface {
	Container
	DebugLogger() log.DebugLogger
	FakeClock() *clockwork.FakeClock
	MockedHTTPTransport() *httpmock.MockTransport
}

type mocked struct {
	Container
	debugLogger log.DebugLogger
	clock       *clockwork.FakeClock
	transport   *httpmock.MockTransport
}

func NewMocked(t *testing.T) Mocked {
	t.Helper()

	logger := log.NewDebugLogger()
	clock := clockwork.NewFakeClock()
	transport := httpmock.NewMockTransport()
	fs := aferofs.NewMemoryFs(aferofs.WithLogger(logger))

	opts := options.New()
	opts.Set(TokenOpt, MockedToken)
	opts.Set(HostOpt, MockedHost)

	c := NewContainer(logger, env.Empty(), fs, opts,
		WithClock(clock),
		WithClientOptions(
			datasheet.WithTransport(transport),
			datasheet.WithRetry(2, time.Millisecond, time.Millisecond),
		),
	)

	return &mocked{Container: c, debugLogger: logger, clock: clock, transport: transport}
}

func (v *mocked) DebugLogger() log.DebugLogger {
	return v.debugLogger
}

func (v *mocked) FakeClock() *clockwork.FakeClock {
	return v.clock
}

func (v *mocked) MockedHTTPTransport() *httpmock.MockTransport {
	return v.transport
}
