package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"wilayah/internal/region"
)

// objectGetter：S3 客户端中本包用到的最小接口，便于测试替换
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Provider 从 S3 兼容存储（AWS S3 / MinIO）读取数据集文档
type S3Provider struct {
	Bucket string
	Key    string
	client objectGetter
}

// S3Config：显式构造参数；生产环境主要依赖环境变量
type S3Config struct {
	Region    string
	Endpoint  string // 可选，MinIO 等自定义端点
	PathStyle bool
}

// S3ConfigFromEnv 读取 DATASET_S3_REGION / DATASET_S3_ENDPOINT / DATASET_S3_PATH_STYLE；
// 凭证走默认链（AWS_ACCESS_KEY_ID 等）
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("DATASET_S3_REGION"),
		Endpoint:  os.Getenv("DATASET_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("DATASET_S3_PATH_STYLE"), "true"),
	}
}

// NewS3Provider 解析 s3://bucket/key 并构造客户端
func NewS3Provider(ctx context.Context, source string, cfg S3Config) (*S3Provider, error) {
	bucket, key, err := parseS3Source(source)
	if err != nil {
		return nil, err
	}
	awsRegion := cfg.Region
	if awsRegion == "" {
		awsRegion = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Provider{Bucket: bucket, Key: key, client: client}, nil
}

func parseS3Source(source string) (string, string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 source: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", errors.New("s3 source must look like s3://bucket/key")
	}
	return u.Host, key, nil
}

func (p *S3Provider) Kind() string { return "s3" }

func (p *S3Provider) source() string { return "s3://" + p.Bucket + "/" + p.Key }

func (p *S3Provider) Load(ctx context.Context) (*region.Dataset, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(p.Bucket), Key: aws.String(p.Key)})
	if err != nil {
		return nil, unavailable(p.source(), err)
	}
	defer out.Body.Close()
	ds, err := Decode(out.Body)
	if err != nil {
		return nil, unavailable(p.source(), err)
	}
	return ds, nil
}
