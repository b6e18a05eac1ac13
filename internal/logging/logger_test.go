package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "quizbank", "production")

	ctx := IntoContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
	assert.Contains(t, buf.String(), "app=quizbank")
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithOutput(&buf, "quizbank", "production"), "extractor")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "component=extractor")
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
