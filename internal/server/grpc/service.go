package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "vault.VaultService"

// Method names, also used to build full method paths.
const (
	MethodPing           = "Ping"
	MethodRegister       = "Register"
	MethodLogin          = "Login"
	MethodRefreshToken   = "RefreshToken"
	MethodListEntries    = "ListEntries"
	MethodGetEntry       = "GetEntry"
	MethodCreateEntry    = "CreateEntry"
	MethodUpdateEntry    = "UpdateEntry"
	MethodDeleteEntry    = "DeleteEntry"
	MethodToggleFavorite = "ToggleFavorite"
	MethodListFavorites  = "ListFavorites"
	MethodListFolders    = "ListFolders"
	MethodCreateFolder   = "CreateFolder"
	MethodRenameFolder   = "RenameFolder"
	MethodDeleteFolder   = "DeleteFolder"
	MethodExportBackup   = "ExportBackup"
)

// FullMethod returns the wire path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// VaultServer is the server API of the vault service.
type VaultServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	GetEntry(context.Context, *GetEntryRequest) (*GetEntryResponse, error)
	CreateEntry(context.Context, *CreateEntryRequest) (*CreateEntryResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
	ToggleFavorite(context.Context, *ToggleFavoriteRequest) (*ToggleFavoriteResponse, error)
	ListFavorites(context.Context, *ListFavoritesRequest) (*ListEntriesResponse, error)
	ListFolders(context.Context, *ListFoldersRequest) (*ListFoldersResponse, error)
	CreateFolder(context.Context, *CreateFolderRequest) (*CreateFolderResponse, error)
	RenameFolder(context.Context, *RenameFolderRequest) (*RenameFolderResponse, error)
	DeleteFolder(context.Context, *DeleteFolderRequest) (*DeleteFolderResponse, error)
	ExportBackup(context.Context, *ExportBackupRequest) (*ExportBackupResponse, error)
}

// ServiceDesc describes VaultServer for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, VaultServer.Ping),
		unary(MethodRegister, VaultServer.Register),
		unary(MethodLogin, VaultServer.Login),
		unary(MethodRefreshToken, VaultServer.RefreshToken),
		unary(MethodListEntries, VaultServer.ListEntries),
		unary(MethodGetEntry, VaultServer.GetEntry),
		unary(MethodCreateEntry, VaultServer.CreateEntry),
		unary(MethodUpdateEntry, VaultServer.UpdateEntry),
		unary(MethodDeleteEntry, VaultServer.DeleteEntry),
		unary(MethodToggleFavorite, VaultServer.ToggleFavorite),
		unary(MethodListFavorites, VaultServer.ListFavorites),
		unary(MethodListFolders, VaultServer.ListFolders),
		unary(MethodCreateFolder, VaultServer.CreateFolder),
		unary(MethodRenameFolder, VaultServer.RenameFolder),
		unary(MethodDeleteFolder, VaultServer.DeleteFolder),
		unary(MethodExportBackup, VaultServer.ExportBackup),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vault",
}

// unary adapts a typed handler to the wire, where every request and response
// is a google.protobuf.Struct. Interceptors see the typed request.
func unary[Req, Resp any](name string, call func(VaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			wire := &structpb.Struct{}
			if err := dec(wire); err != nil {
				return nil, err
			}
			in := new(Req)
			if err := fromStruct(wire, in); err != nil {
				return nil, status.Error(codes.InvalidArgument, "malformed request")
			}
			handler := func(ctx context.Context, req any) (any, error) {
				out, err := call(srv.(VaultServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				st, err := toStruct(out)
				if err != nil {
					return nil, status.Error(codes.Internal, "internal error")
				}
				return st, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}
