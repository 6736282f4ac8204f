package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/logger"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store/disk"
	gormstore "github.com/doodlesbykumbi/blog-in-go/pkg/server/store/gorm"
)

// portCounter is used to allocate unique ports for binary servers
var portCounter int32 = 19000

// ServerConfig holds configuration for a test blog server instance
type ServerConfig struct {
	RejectInactive bool
	MaxUploadSize  int64
	TokenTTL       time.Duration
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		RejectInactive: true,
		MaxUploadSize:  1 << 20,
		TokenTTL:       time.Hour,
	}
}

// ServerInstance represents a running blog server for a single scenario
type ServerInstance struct {
	ServerURL string
	UploadDir string
	Config    ServerConfig

	httpServer    *httptest.Server
	serverProcess *exec.Cmd
	cancel        context.CancelFunc
}

// StartServer starts a server on the suite database. Inline or binary mode
// follows how the suite was started.
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	uploadDir, err := os.MkdirTemp("", "blog-uploads-")
	if err != nil {
		return nil, err
	}
	if tc.InlineMode {
		return startInlineServerInstance(tc, uploadDir, cfg)
	}
	return startBinaryServerInstance(tc, uploadDir, cfg)
}

func startInlineServerInstance(tc *TestContext, uploadDir string, cfg ServerConfig) (*ServerInstance, error) {
	serverCfg := &config.Config{
		Port:           "0",
		BindAddress:    "127.0.0.1",
		DatabaseURL:    tc.DatabaseURL,
		JWTSecret:      testJWTSecret,
		TokenTTL:       cfg.TokenTTL,
		UploadDir:      uploadDir,
		MaxUploadSize:  cfg.MaxUploadSize,
		CORSAllowedOrigins: []string{"*"},
		LogLevel:       "error",
		RejectInactive: cfg.RejectInactive,
		BcryptCost:     bcrypt.MinCost,
	}
	if err := serverCfg.Validate(); err != nil {
		return nil, err
	}

	files, err := disk.NewFilesStore(uploadDir)
	if err != nil {
		return nil, err
	}

	s, err := server.NewServer(serverCfg, logger.Nop(), tc.DB, server.Stores{
		Users:  gormstore.NewUsersStore(tc.DB),
		Blogs:  gormstore.NewBlogsStore(tc.DB),
		Files:  files,
		Health: gormstore.NewHealthStore(tc.DB),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	endpoints.RegisterAll(s)

	ts := httptest.NewServer(s.Handler())
	return &ServerInstance{
		ServerURL:  ts.URL,
		UploadDir:  uploadDir,
		Config:     cfg,
		httpServer: ts,
	}, nil
}

func startBinaryServerInstance(tc *TestContext, uploadDir string, cfg ServerConfig) (*ServerInstance, error) {
	port := strconv.Itoa(int(atomic.AddInt32(&portCounter, 1)))

	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the suite setup
	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"BLOG_JWT_SECRET="+testJWTSecret,
		"BLOG_TOKEN_TTL="+cfg.TokenTTL.String(),
		"BLOG_UPLOAD_DIR="+uploadDir,
		"BLOG_MAX_UPLOAD_SIZE="+strconv.FormatInt(cfg.MaxUploadSize, 10),
		"BLOG_REJECT_INACTIVE="+strconv.FormatBool(cfg.RejectInactive),
		"BLOG_BCRYPT_COST="+strconv.Itoa(bcrypt.MinCost),
		"BLOG_LOG_LEVEL=warn",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     "http://127.0.0.1:" + port,
		UploadDir:     uploadDir,
		Config:        cfg,
		serverProcess: cmd,
		cancel:        cancel,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance and removes its upload directory
func (si *ServerInstance) Stop() {
	if si.httpServer != nil {
		si.httpServer.Close()
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
	if si.UploadDir != "" {
		_ = os.RemoveAll(si.UploadDir)
	}
}
