package s3

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const maxKeysPerPage = 1000

// NewBasicClient returns a Lister using the default AWS credential chain.
func NewBasicClient(bucket, region, prefix string) Lister {
	awsConfig := aws.NewConfig()
	awsConfig.Region = aws.String(region)
	sess := session.Must(session.NewSession(awsConfig))
	return NewBasicClientWithAPI(bucket, region, prefix, s3.New(sess))
}

func NewBasicClientWithAPI(bucket, region, prefix string, api s3iface.S3API) Lister {
	return &basicClient{
		bucket: bucket,
		region: region,
		prefix: prefix,
		api:    api,
	}
}

type basicClient struct {
	region string
	bucket string
	prefix string
	api    s3iface.S3API
}

// List pages through all objects under key.
func (s *basicClient) List(key string) (keys []string, err error) {
	keys = make([]string, 0, maxKeysPerPage)
	lastKey := ""
	for {
		params := &s3.ListObjectsInput{
			Bucket:  aws.String(s.bucket),
			Marker:  aws.String(lastKey),
			MaxKeys: aws.Int64(maxKeysPerPage),
			Prefix:  aws.String(s.getKeyWithPrefix(key)),
		}
		resp, err := s.api.ListObjects(params)
		if err != nil {
			return nil, err
		}
		for _, v := range resp.Contents {
			keys = append(keys, aws.StringValue(v.Key))
		}
		if len(keys) > 0 {
			lastKey = keys[len(keys)-1]
		}
		if !aws.BoolValue(resp.IsTruncated) {
			break
		}
	}
	return
}

func (s *basicClient) getKeyWithPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimRight(s.prefix, "/") + "/" + key // ensure trailing slash after prefix.
	}
	return key
}
