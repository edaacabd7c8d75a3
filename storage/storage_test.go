package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	config "github.com/talesoul/talesoul-api/configs"
)

type recordingS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  string
}

func (r *recordingS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	r.input = in
	data, _ := io.ReadAll(in.Body)
	r.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestSpacesUpload(t *testing.T) {
	client := &recordingS3{}
	s := newSpacesStorage(client, SpacesConfig{Bucket: "media", Endpoint: "https://nyc3.digitaloceanspaces.com"})

	url, err := s.Upload(context.Background(), strings.NewReader("png-bytes"), "profile_pictures", "user_1.png", "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if want := "https://media.nyc3.digitaloceanspaces.com/profile_pictures/user_1.png"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
	if aws.StringValue(client.input.ACL) != "public-read" {
		t.Errorf("ACL = %q, want public-read", aws.StringValue(client.input.ACL))
	}
	if aws.StringValue(client.input.ContentType) != "image/png" {
		t.Errorf("ContentType = %q", aws.StringValue(client.input.ContentType))
	}
	if client.body != "png-bytes" {
		t.Errorf("body = %q", client.body)
	}
}

func TestSpacesUploadPrefersCDN(t *testing.T) {
	s := newSpacesStorage(&recordingS3{}, SpacesConfig{Bucket: "media", Endpoint: "nyc3.digitaloceanspaces.com", CDNURL: "https://cdn.example.com/"})

	url, err := s.Upload(context.Background(), strings.NewReader("x"), "course_videos", "course_3.mp4", "video/mp4")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/course_videos/course_3.mp4" {
		t.Fatalf("url = %q", url)
	}
}

func TestNewWithoutCredentialsIsDisabled(t *testing.T) {
	fs, err := New(&config.Config{StorageDriver: "cloudinary"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Upload(context.Background(), strings.NewReader(""), "a", "b", "image/png"); err != ErrNotConfigured {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
	if _, err := New(&config.Config{StorageDriver: "ftp"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestResourceType(t *testing.T) {
	cases := map[string]string{
		"image/png":       "image",
		"video/mp4":       "video",
		"application/pdf": "raw",
	}
	for ct, want := range cases {
		if got := resourceType(ct); got != want {
			t.Errorf("resourceType(%q) = %q, want %q", ct, got, want)
		}
	}
}
