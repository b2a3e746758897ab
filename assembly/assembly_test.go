package assembly_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/log"
	"chat-gate-service/assembly"
	"chat-gate-service/conf"
)

func TestNewAssembly(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	logger, err := log.New(log.WithLevel(log.ErrorLevel))
	require.NoError(err)

	cfg := conf.Local{
		BindAddress:            "127.0.0.1:0",
		ApiKey:                 "inbound-secret",
		MaxRequestBodySizeInMb: 1,
		Upstream: conf.Upstream{
			ApiKey:       "upstream-secret",
			BaseUrl:      "http://127.0.0.1:1",
			Model:        "gpt-4o-mini",
			Temperature:  0.7,
			MaxTokens:    500,
			TimeoutInSec: 1,
		},
		RateLimit: conf.RateLimit{
			MaxRequests: 100,
			WindowInMs:  3600000,
		},
	}
	require.NoError(cfg.Validate())

	asm, err := assembly.New(cfg, logger)
	require.NoError(err)
	require.NoError(asm.Close())
}
