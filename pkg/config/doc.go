// Package config provides configuration management for the blog server.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//   - Built-in defaults
//   - The YAML file $BLOG_CONFIG_PATH/blog.yml (default /etc/blog/blog.yml)
//   - A .env file ($BLOG_ENV_FILE, default ./.env), for keys not set in the
//     real environment
//   - Environment variables
//
// Every attribute remembers which source supplied it, which is what
// "blogctl configuration show" prints.
//
// # Key Configuration Options
//
//   - BLOG_JWT_SECRET: token signing secret (required, at least 32 bytes)
//   - DATABASE_URL: PostgreSQL connection string
//   - BLOG_UPLOAD_DIR: upload root (default ./uploads)
//   - BLOG_LOG_LEVEL: logging verbosity
//   - PORT / BLOG_PORT: server listen port
package config
