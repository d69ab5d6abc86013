// Package s3 issues presigned PUT URLs using SigV4 query signing. Uploads go
// straight from the browser to the bucket, so the server never proxies bytes.
package s3

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/logger"
)

const (
	algorithm       = "AWS4-HMAC-SHA256"
	unsignedPayload = "UNSIGNED-PAYLOAD"
	serviceName     = "s3"
)

var (
	errBucketRequired      = errors.New("s3 bucket is required")
	errRegionRequired      = errors.New("s3 region is required")
	errCredentialsRequired = errors.New("s3 credentials are required")
	errKeyRequired         = errors.New("object key is required")
)

// PresignedUpload is the response contract for a presign request.
type PresignedUpload struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

type Client struct {
	cfg config.S3Config
	now func() time.Time
}

// NewClient validates the bucket configuration. Missing credentials are not
// fatal here; PresignPut fails per-request so the rest of the API stays up.
func NewClient(ctx context.Context, cfg config.S3Config, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errBucketRequired
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errRegionRequired
	}

	c := &Client{cfg: cfg, now: time.Now}

	if logg != nil {
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			logg.Warn(ctx, "s3 client initialized without credentials")
		} else {
			logg.Info(ctx, "s3 client initialized")
		}
	}
	return c, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

// Region returns the configured bucket region.
func (c *Client) Region() string {
	return c.cfg.Region
}

// PresignPut returns a single-use upload URL for the given key. The URL is
// valid for the configured TTL and binds the content type the client must
// send on the PUT.
func (c *Client) PresignPut(key, contentType string) (PresignedUpload, error) {
	if strings.TrimSpace(key) == "" {
		return PresignedUpload{}, errKeyRequired
	}
	if c.cfg.AccessKeyID == "" || c.cfg.SecretAccessKey == "" {
		return PresignedUpload{}, errCredentialsRequired
	}

	ttl := c.cfg.PresignTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	signed := presign(presignInput{
		method:      "PUT",
		host:        fmt.Sprintf("%s.s3.%s.amazonaws.com", c.cfg.Bucket, c.cfg.Region),
		key:         key,
		contentType: contentType,
		accessKeyID: c.cfg.AccessKeyID,
		secretKey:   c.cfg.SecretAccessKey,
		region:      c.cfg.Region,
		expires:     ttl,
		signTime:    c.now().UTC(),
	})

	return PresignedUpload{
		URL:    signed,
		Key:    key,
		Bucket: c.cfg.Bucket,
		Region: c.cfg.Region,
	}, nil
}

type presignInput struct {
	method      string
	host        string
	key         string
	contentType string
	accessKeyID string
	secretKey   string
	region      string
	expires     time.Duration
	signTime    time.Time
}

func presign(in presignInput) string {
	amzDate := in.signTime.Format("20060102T150405Z")
	dateStamp := in.signTime.Format("20060102")
	scope := strings.Join([]string{dateStamp, in.region, serviceName, "aws4_request"}, "/")

	signedHeaders := "host"
	canonicalHeaders := "host:" + in.host + "\n"
	if in.contentType != "" {
		signedHeaders = "content-type;host"
		canonicalHeaders = "content-type:" + in.contentType + "\n" + canonicalHeaders
	}

	query := url.Values{}
	query.Set("X-Amz-Algorithm", algorithm)
	query.Set("X-Amz-Credential", in.accessKeyID+"/"+scope)
	query.Set("X-Amz-Date", amzDate)
	query.Set("X-Amz-Expires", strconv.Itoa(int(in.expires.Seconds())))
	query.Set("X-Amz-SignedHeaders", signedHeaders)
	canonicalQuery := query.Encode()

	canonicalPath := encodePath(in.key)
	canonicalRequest := strings.Join([]string{
		in.method,
		canonicalPath,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		unsignedPayload,
	}, "\n")

	requestDigest := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		algorithm,
		amzDate,
		scope,
		hex.EncodeToString(requestDigest[:]),
	}, "\n")

	signingKey := deriveSigningKey(in.secretKey, dateStamp, in.region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	return fmt.Sprintf("https://%s%s?%s&X-Amz-Signature=%s", in.host, canonicalPath, canonicalQuery, signature)
}

func deriveSigningKey(secret, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, serviceName)
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

// encodePath percent-encodes each path segment, keeping the separators. S3
// requires RFC 3986 escaping and Go's path escaping differs on a few bytes.
func encodePath(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = escapeSegment(segment)
	}
	return "/" + strings.Join(segments, "/")
}

func escapeSegment(segment string) string {
	var b strings.Builder
	for i := 0; i < len(segment); i++ {
		ch := segment[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '_' || ch == '.' || ch == '~':
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}
