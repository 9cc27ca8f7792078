package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOOKUP_CHAIN", "")
	t.Setenv("PRICING_RULES", "")
	t.Setenv("USER_API_URL", "")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, []string{SourceCache, SourceMemory, SourceAPI}, cfg.LookupChain)
	require.Empty(t, cfg.PricingRules)
	require.Equal(t, 1000, cfg.CacheCap)
	require.Equal(t, 2*time.Second, cfg.UserAPI.Timeout)
	require.Equal(t, "users", cfg.Tables.User)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOOKUP_CHAIN", " redis , postgres,api ")
	t.Setenv("PRICING_RULES", "pickup,corporate")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TTL", "1500")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_DB", "users")
	t.Setenv("PG_USER", "app")
	t.Setenv("PG_PASSWORD", "p@ss word")
	t.Setenv("USER_API_URL", "http://users:8082/")
	t.Setenv("USER_API_TIMEOUT", "250ms")
	t.Setenv("CACHE_CAP", "-3")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, []string{SourceRedis, SourcePostgres, SourceAPI}, cfg.LookupChain)
	require.Equal(t, []string{"pickup", "corporate"}, cfg.PricingRules)
	require.Equal(t, 1500*time.Millisecond, cfg.Redis.TTL)
	require.Equal(t, "http://users:8082", cfg.UserAPI.BaseURL)
	require.Equal(t, 250*time.Millisecond, cfg.UserAPI.Timeout)
	require.Equal(t, 1, cfg.CacheCap)
	require.Equal(t, "postgres://app:p%40ss%20word@db:5432/users?sslmode=disable", cfg.DSN())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		chain string
		env   map[string]string

		wantErr string
	}{
		{
			name:    "postgres without credentials",
			chain:   "cache,postgres",
			wantErr: "missing required envs: PG_DB, PG_HOST, PG_PASSWORD, PG_USER",
		},
		{
			name:    "redis without address",
			chain:   "redis,api",
			wantErr: "missing required envs: REDIS_ADDR",
		},
		{
			name:    "unknown source",
			chain:   "cache,ldap",
			wantErr: `invalid LOOKUP_CHAIN entry: "ldap"`,
		},
		{
			name:  "redis with address",
			chain: "redis",
			env:   map[string]string{"REDIS_ADDR": "r:6379"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"REDIS_ADDR", "PG_HOST", "PG_DB", "PG_USER", "PG_PASSWORD"} {
				t.Setenv(k, "")
			}
			t.Setenv("LOOKUP_CHAIN", tc.chain)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := load()
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateKafka(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	cfg, err := load()
	require.NoError(t, err)
	require.EqualError(t, cfg.ValidateKafka(), "missing required envs: KAFKA_BROKERS")

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	cfg, err = load()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateKafka())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}
