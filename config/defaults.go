package config

import (
	"github.com/spf13/viper"

	"github.com/Alijeyrad/vlog_backend/pkg/constants"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", constants.EnvDevelopment)
	v.SetDefault("server.domain", "localhost")
	v.SetDefault("server.body_limit_mb", 6)
	v.SetDefault("server.cors.enabled", false)
	v.SetDefault("server.cors.allow_origins", []string{})
	v.SetDefault("server.cors.allow_credentials", false)
	v.SetDefault("server.cors.max_age_seconds", 600)
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.window_seconds", 30)

	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "vlog")
	v.SetDefault("database.timeout_seconds", 5)
	v.SetDefault("database.connect_timeout_seconds", 10)
	v.SetDefault("database.max_pool_size", 50)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout_seconds", 5)
	v.SetDefault("redis.read_timeout_seconds", 3)
	v.SetDefault("redis.write_timeout_seconds", 3)

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.key_prefix", "page:")

	v.SetDefault("media.provider", "cloudinary")
	v.SetDefault("media.timeout_seconds", 30)
	v.SetDefault("media.max_upload_bytes", 5<<20)
	v.SetDefault("media.max_width", 0)
	v.SetDefault("media.folder", "vlogs")
	v.SetDefault("media.cloudinary.cloud_name", "")
	v.SetDefault("media.cloudinary.api_key", "")
	v.SetDefault("media.cloudinary.api_secret", "")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.public_base_url", "")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "password")

	v.SetDefault("authentication.session_ttl_minutes", 12*60)
	v.SetDefault("authentication.paseto.local_key_hex", "")
	v.SetDefault("authentication.paseto.issuer", constants.AppName)
	v.SetDefault("authentication.paseto.audience", constants.AppName+"-admin")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 12*60)

	v.SetDefault("authorization.enable_audit", false)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from", "")
	v.SetDefault("email.notify_to", []string{})
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.use_tls", false)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "")

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", constants.AppName)
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.otlp_endpoint", "")
	v.SetDefault("observability.tracing.otlp_insecure", false)
	v.SetDefault("observability.tracing.sampling_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
	v.SetDefault("logging.output.file.enabled", false)
	v.SetDefault("logging.output.file.path", "logs/app.log")
	v.SetDefault("logging.output.file.max_size_mb", 50)
	v.SetDefault("logging.output.file.max_backups", 5)
	v.SetDefault("logging.output.file.max_age_days", 30)
	v.SetDefault("logging.output.file.compress", true)
	v.SetDefault("logging.output.loki.enabled", false)
	v.SetDefault("logging.output.loki.endpoint", "")
	v.SetDefault("logging.output.loki.username", "")
	v.SetDefault("logging.output.loki.password", "")
}
