package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/logging"
	sc "github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// downloadURLValidity bounds the presigned GET handed out with a receipt.
const downloadURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BackupService exports an owner's vault to S3-compatible object storage.
// Secrets leave the server sealed; legacy plaintext values are sealed on
// the way out.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      Sealer
	config      *sc.Config
	log         logging.Logger
	now         clock
	newID       idgen
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, cipher Sealer, cfg *sc.Config, log logging.Logger) *BackupService {
	return &BackupService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		config:      cfg,
		log:         log.With("module", "backup"),
		now:         utcNow,
		newID:       newUUID,
	}
}

// StorageKey returns the object key for an export of ownerID taken at t.
func StorageKey(ownerID string, t time.Time, id string) string {
	return fmt.Sprintf("backups/%s/%s-%s.json", ownerID, t.UTC().Format("20060102T150405Z"), id)
}

func (s *BackupService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Snapshot builds the backup document for ownerID without uploading it.
func (s *BackupService) Snapshot(ctx context.Context, ownerID string) (*models.Backup, error) {
	if ownerID == "" {
		return nil, common.ErrorMissingOwner
	}

	folders, err := s.repomanager.Folders(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.repomanager.Entries(s.db).List(ctx, ownerID, entries.ListFilter{})
	if err != nil {
		return nil, err
	}

	doc := &models.Backup{
		Version:    models.BackupFormatVersion,
		OwnerID:    ownerID,
		ExportedAt: s.now(),
		Folders:    make([]models.BackupFolder, 0, len(folders)),
		Entries:    make([]models.BackupEntry, 0, len(items)),
	}
	for _, f := range folders {
		doc.Folders = append(doc.Folders, models.BackupFolder{
			ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
		})
	}
	for _, e := range items {
		secret := e.Secret
		if !cryptox.IsSealed(secret) {
			if secret, err = s.cipher.Seal(secret); err != nil {
				return nil, err
			}
		}
		doc.Entries = append(doc.Entries, models.BackupEntry{
			ID:           e.ID,
			Title:        e.Title,
			Username:     e.Username,
			SealedSecret: secret,
			URL:          e.URL,
			Notes:        e.Notes,
			FolderID:     e.FolderID,
			Favorite:     e.Favorite,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.UpdatedAt,
		})
	}
	return doc, nil
}

// Export uploads a snapshot and returns where it landed together with a
// short-lived download link.
func (s *BackupService) Export(ctx context.Context, ownerID string) (*models.BackupReceipt, error) {
	doc, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal backup: %w", common.ErrorInternal, err)
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 config: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(ownerID, doc.ExportedAt, s.newID())

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("%w: upload backup: %w", common.ErrorInternal, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(downloadURLValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign backup: %w", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "backup exported", "owner_id", ownerID, "key", key,
		"entries", len(doc.Entries), "folders", len(doc.Folders))

	return &models.BackupReceipt{
		StorageKey:  key,
		DownloadURL: req.URL,
		Entries:     len(doc.Entries),
		Folders:     len(doc.Folders),
	}, nil
}
