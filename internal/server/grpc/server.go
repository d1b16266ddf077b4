// Package grpc exposes the vault services over gRPC. Messages are plain Go
// structs that travel as google.protobuf.Struct values, so any client using
// the default proto codec can call the service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type VaultService interface {
	List(ctx context.Context, ownerID string, folderID *string) ([]*models.Entry, error)
	ListFavorites(ctx context.Context, ownerID string) ([]*models.Entry, error)
	Get(ctx context.Context, ownerID, id string) (*models.Entry, error)
	Create(ctx context.Context, ownerID string, fields models.EntryFields) (string, error)
	Update(ctx context.Context, ownerID, id string, patch models.EntryPatch) error
	SoftDelete(ctx context.Context, ownerID, id string) error
	ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error)
}

type FolderService interface {
	List(ctx context.Context, ownerID string) ([]*models.Folder, error)
	Create(ctx context.Context, ownerID, name string) (string, error)
	Update(ctx context.Context, ownerID, id, name string) error
	Delete(ctx context.Context, ownerID, id string) error
}

type BackupService interface {
	Export(ctx context.Context, ownerID string) (*models.BackupReceipt, error)
}

type GRPCServer struct {
	address   string
	users     UserService
	vault     VaultService
	folders   FolderService
	backups   BackupService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, vs VaultService, fs FolderService,
	bs BackupService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		vault:     vs,
		folders:   fs,
		backups:   bs,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the interceptors and the vault
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
