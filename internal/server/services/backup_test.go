package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/logging"
	sc "github.com/dmitrijs2005/credvault/internal/server/config"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "vault",
	}
}

type capturedPut struct {
	bucket, key, contentType string
	body                     []byte
}

// stubS3 replaces the AWS seams for the duration of the test.
func stubS3(t *testing.T, putErr, presignErr error) *capturedPut {
	t.Helper()

	origLoad, origNew, origPre, origPut, origGet :=
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, putObject, presignGetObject =
			origLoad, origNew, origPre, origPut, origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }

	captured := &capturedPut{}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if putErr != nil {
			return nil, putErr
		}
		captured.bucket, captured.key, captured.contentType = *in.Bucket, *in.Key, *in.ContentType
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		captured.body = b
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 15*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://minio.local/" + *in.Key}, nil
	}
	return captured
}

func (e *testEnv) backup() *BackupService {
	s := NewBackupService(e.db, e.repos, e.cipher, testS3Config(), logging.Nop{})
	s.now = func() time.Time { return time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC) }
	s.newID = func() string { return "abc" }
	return s
}

func TestBackup_ExportUploadsSealedSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fid, err := env.folders().Create(ctx, "42", "Work")
	require.NoError(t, err)
	vault := env.vault()
	_, err = vault.Create(ctx, "42", models.EntryFields{Title: "Bank", Secret: "s3cr3t", FolderID: &fid})
	require.NoError(t, err)
	gone, err := vault.Create(ctx, "42", models.EntryFields{Title: "Old", Secret: "x"})
	require.NoError(t, err)
	require.NoError(t, vault.SoftDelete(ctx, "42", gone))
	env.insertLegacy(t, "legacy", "42", "plainpassword123", false)
	_, err = vault.Create(ctx, "99", models.EntryFields{Title: "Foreign", Secret: "y"})
	require.NoError(t, err)

	put := stubS3(t, nil, nil)

	receipt, err := env.backup().Export(ctx, "42")
	require.NoError(t, err)

	assert.Equal(t, "backups/42/20240701T083000Z-abc.json", receipt.StorageKey)
	assert.Equal(t, "https://minio.local/"+receipt.StorageKey, receipt.DownloadURL)
	assert.Equal(t, 2, receipt.Entries)
	assert.Equal(t, 1, receipt.Folders)

	assert.Equal(t, "vault", put.bucket)
	assert.Equal(t, receipt.StorageKey, put.key)
	assert.Equal(t, "application/json", put.contentType)

	var doc models.Backup
	require.NoError(t, json.Unmarshal(put.body, &doc))
	assert.Equal(t, models.BackupFormatVersion, doc.Version)
	assert.Equal(t, "42", doc.OwnerID)
	require.Len(t, doc.Entries, 2)
	assert.NotContains(t, string(put.body), "s3cr3t")
	assert.NotContains(t, string(put.body), "plainpassword123")

	for _, e := range doc.Entries {
		assert.True(t, cryptox.IsSealed(e.SealedSecret), e.ID)
	}
	opened, err := env.cipher.Open(doc.Entries[0].SealedSecret)
	require.NoError(t, err)
	assert.Equal(t, "plainpassword123", opened)
}

func TestBackup_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.backup().Export(ctx, "")
	assert.ErrorIs(t, err, common.ErrorMissingOwner)

	stubS3(t, errors.New("bucket missing"), nil)
	_, err = env.backup().Export(ctx, "42")
	assert.ErrorIs(t, err, common.ErrorInternal)

	stubS3(t, nil, errors.New("presign failed"))
	_, err = env.backup().Export(ctx, "42")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestBackup_LoadConfigError(t *testing.T) {
	env := newTestEnv(t)
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := env.backup().Export(context.Background(), "42")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
