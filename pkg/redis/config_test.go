package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alijeyrad/vlog_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	tests := []struct {
		name string
		in   config.RedisConfig
		want Config
	}{
		{
			name: "zero values use defaults",
			in:   config.RedisConfig{Addr: "cache:6379"},
			want: Config{
				Addr: "cache:6379", PoolSize: 10, MinIdleConns: 2,
				DialTimeout: 5 * time.Second, ReadTimeout: 3 * time.Second, WriteTimeout: 3 * time.Second,
			},
		},
		{
			name: "explicit values win",
			in: config.RedisConfig{
				Addr: "cache:6379", DB: 2, Password: "pw", PoolSize: 40, MinIdleConns: 5,
				DialTimeoutSeconds: 1, ReadTimeoutSeconds: 2, WriteTimeoutSeconds: 4,
			},
			want: Config{
				Addr: "cache:6379", DB: 2, Password: "pw", PoolSize: 40, MinIdleConns: 5,
				DialTimeout: time.Second, ReadTimeout: 2 * time.Second, WriteTimeout: 4 * time.Second,
			},
		},
		{
			name: "empty addr is kept empty",
			in:   config.RedisConfig{},
			want: Config{
				PoolSize: 10, MinIdleConns: 2,
				DialTimeout: 5 * time.Second, ReadTimeout: 3 * time.Second, WriteTimeout: 3 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromCentralConfig(tt.in); got != tt.want {
				t.Errorf("FromCentralConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewRedis_NotConfigured(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("NewRedis() error = %v, want ErrNotConfigured", err)
	}
}
