package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
)

func TestCertificateHTML(t *testing.T) {
	html, err := certificateHTML("Ada <Lovelace>", "Grace", "Go Basics", "cert-1", time.Date(2025, time.March, 4, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("certificateHTML: %v", err)
	}
	for _, want := range []string{"Ada &lt;Lovelace&gt;", "Grace", "Go Basics", "cert-1", "March 4, 2025"} {
		if !strings.Contains(html, want) {
			t.Errorf("certificate html missing %q", want)
		}
	}
}

func certificateFixture(t *testing.T, render PDFRenderer) (*testEnv, *CertificateService, *models.CourseEnrollment) {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()
	instructor := env.users.add(t, "grace@test.io", models.RoleMentor)
	student := env.users.add(t, "ada@test.io", models.RoleUser)
	course := env.courses.add(t, instructor, "Go Basics", 0, true)

	e := &models.CourseEnrollment{UserID: student.ID, CourseID: course.ID}
	if err := env.enrollments.Create(ctx, e); err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	loaded, err := env.enrollments.FindByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	svc := NewCertificateService(env.enrollments, env.files, env.notifier, notifications.NewTemplates("http://localhost:3000"), render)
	return env, svc, loaded
}

func TestCertificateIssue(t *testing.T) {
	var rendered string
	render := func(_ context.Context, html string) ([]byte, error) {
		rendered = html
		return []byte("%PDF-1.4"), nil
	}
	env, svc, enrollment := certificateFixture(t, render)

	svc.Issue(enrollment)
	svc.Wait()

	if !strings.Contains(rendered, "Go Basics") {
		t.Fatalf("renderer got unexpected html")
	}
	stored, _ := env.enrollments.FindByID(context.Background(), enrollment.ID)
	if stored.CertificateURL == nil || !strings.HasPrefix(*stored.CertificateURL, "https://cdn.test/certificates/") {
		t.Fatalf("certificate url = %v", stored.CertificateURL)
	}
	if env.notifier.count() != 1 || env.notifier.sent[0].To[0].Email != "ada@test.io" {
		t.Fatalf("certificate email not sent: %+v", env.notifier.sent)
	}

	svc.Issue(stored)
	svc.Wait()
	if len(env.files.uploads) != 1 {
		t.Fatalf("uploads = %v, want a single certificate", env.files.uploads)
	}
}

func TestCertificateRenderFailure(t *testing.T) {
	render := func(context.Context, string) ([]byte, error) {
		return nil, errors.New("chrome not found")
	}
	env, svc, enrollment := certificateFixture(t, render)

	svc.Issue(enrollment)
	svc.Wait()

	if len(env.files.uploads) != 0 || env.notifier.count() != 0 {
		t.Fatalf("failed render must not upload or email: uploads=%v emails=%d", env.files.uploads, env.notifier.count())
	}
}
