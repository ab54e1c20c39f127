package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/autobody/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *S3Store {
	return NewS3Store(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "invoices",
		PresignExpiry:  5 * time.Minute,
	})
}

// stubClients replaces the AWS constructors with offline fakes.
func stubClients(t *testing.T) *string {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	var endpoint string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint != nil {
			endpoint = *opts.BaseEndpoint
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	return &endpoint
}

func applyExpiry(optFns []func(*s3.PresignOptions)) time.Duration {
	var po s3.PresignOptions
	for _, fn := range optFns {
		fn(&po)
	}
	return po.Expires
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^invoices/2026/05/04/[0-9a-f-]{36}\.pdf$`), key)
	assert.NotEqual(t, key, ObjectKey(time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC)))
}

func TestPresignPut(t *testing.T) {
	endpoint := stubClients(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "invoices", *in.Bucket)
		assert.Equal(t, "invoices/2026/05/04/a.pdf", *in.Key)
		assert.Equal(t, "application/pdf", *in.ContentType)
		assert.Equal(t, 5*time.Minute, applyExpiry(optFns))
		return &v4.PresignedHTTPRequest{URL: "http://put"}, nil
	}

	url, err := newStore().PresignPut(context.Background(), "invoices/2026/05/04/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://put", url)
	assert.Equal(t, "http://127.0.0.1:9000", *endpoint)
}

func TestPresignPut_Error(t *testing.T) {
	stubClients(t)
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	_, err := newStore().PresignPut(context.Background(), "k")
	require.EqualError(t, err, "presign-put-fail")
}

func TestPresignGet(t *testing.T) {
	stubClients(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "k", *in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://get"}, nil
	}

	url, err := newStore().PresignGet(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "http://get", url)
}

func TestPresign_DefaultExpiry(t *testing.T) {
	stubClients(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, 15*time.Minute, applyExpiry(optFns))
		return &v4.PresignedHTTPRequest{URL: "u"}, nil
	}

	s := newStore()
	s.config.PresignExpiry = 0
	_, err := s.PresignGet(context.Background(), "k")
	require.NoError(t, err)
}

func TestPresign_ConfigLoadError(t *testing.T) {
	stubClients(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := newStore().PresignPut(context.Background(), "k")
	require.EqualError(t, err, "load-fail")
	_, err = newStore().PresignGet(context.Background(), "k")
	require.EqualError(t, err, "load-fail")
}
