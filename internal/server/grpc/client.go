package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a thin typed client for VaultServer.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	return grpc.NewClient(target, opts...)
}

// WithAccessToken attaches an access token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, accessTokenKey, token)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	req, err := toStruct(in)
	if err != nil {
		return nil, err
	}
	wire := &structpb.Struct{}
	if err := cc.Invoke(ctx, FullMethod(method), req, wire, opts...); err != nil {
		return nil, err
	}
	out := new(Resp)
	if err := fromStruct(wire, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts...)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *Client) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts...)
}

func (c *Client) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, MethodListEntries, in, opts...)
}

func (c *Client) GetEntry(ctx context.Context, in *GetEntryRequest, opts ...grpc.CallOption) (*GetEntryResponse, error) {
	return invoke[GetEntryResponse](ctx, c.cc, MethodGetEntry, in, opts...)
}

func (c *Client) CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*CreateEntryResponse, error) {
	return invoke[CreateEntryResponse](ctx, c.cc, MethodCreateEntry, in, opts...)
}

func (c *Client) UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*UpdateEntryResponse, error) {
	return invoke[UpdateEntryResponse](ctx, c.cc, MethodUpdateEntry, in, opts...)
}

func (c *Client) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error) {
	return invoke[DeleteEntryResponse](ctx, c.cc, MethodDeleteEntry, in, opts...)
}

func (c *Client) ToggleFavorite(ctx context.Context, in *ToggleFavoriteRequest, opts ...grpc.CallOption) (*ToggleFavoriteResponse, error) {
	return invoke[ToggleFavoriteResponse](ctx, c.cc, MethodToggleFavorite, in, opts...)
}

func (c *Client) ListFavorites(ctx context.Context, in *ListFavoritesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, MethodListFavorites, in, opts...)
}

func (c *Client) ListFolders(ctx context.Context, in *ListFoldersRequest, opts ...grpc.CallOption) (*ListFoldersResponse, error) {
	return invoke[ListFoldersResponse](ctx, c.cc, MethodListFolders, in, opts...)
}

func (c *Client) CreateFolder(ctx context.Context, in *CreateFolderRequest, opts ...grpc.CallOption) (*CreateFolderResponse, error) {
	return invoke[CreateFolderResponse](ctx, c.cc, MethodCreateFolder, in, opts...)
}

func (c *Client) RenameFolder(ctx context.Context, in *RenameFolderRequest, opts ...grpc.CallOption) (*RenameFolderResponse, error) {
	return invoke[RenameFolderResponse](ctx, c.cc, MethodRenameFolder, in, opts...)
}

func (c *Client) DeleteFolder(ctx context.Context, in *DeleteFolderRequest, opts ...grpc.CallOption) (*DeleteFolderResponse, error) {
	return invoke[DeleteFolderResponse](ctx, c.cc, MethodDeleteFolder, in, opts...)
}

func (c *Client) ExportBackup(ctx context.Context, in *ExportBackupRequest, opts ...grpc.CallOption) (*ExportBackupResponse, error) {
	return invoke[ExportBackupResponse](ctx, c.cc, MethodExportBackup, in, opts...)
}
