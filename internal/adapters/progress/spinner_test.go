package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestSpinnerProgressReporter(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageConnecting, Message: "Connecting", Spinner: true})

	r.Info("using account 0xf39F")
	r.Error("failed to record deployment")

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted, Message: "done"})
	r.Stop()
	assert.False(t, r.spinner.Active())

	assert.Contains(t, buf.String(), "using account 0xf39F\n")
	assert.Contains(t, buf.String(), "failed to record deployment\n")
}

func TestNopSink(t *testing.T) {
	var sink usecase.ProgressSink = NewNopSink()
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageLoading})
	sink.Info("ignored")
	sink.Error("ignored")
}
