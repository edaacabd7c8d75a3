package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/storage"
)

//go:embed templates/certificate.html
var certificateFS embed.FS

var certificateTemplate = template.Must(template.ParseFS(certificateFS, "templates/certificate.html"))

// CertificateIssuer produces a completion certificate in the background.
type CertificateIssuer interface {
	Issue(enrollment *models.CourseEnrollment)
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

type CertificateService struct {
	enrollments repository.EnrollmentRepository
	files       storage.FileStorage
	notifier    Notifier
	templates   *notifications.Templates
	render      PDFRenderer
	timeout     time.Duration
	wg          sync.WaitGroup
}

func NewCertificateService(enrollments repository.EnrollmentRepository, files storage.FileStorage, notifier Notifier, templates *notifications.Templates, render PDFRenderer) *CertificateService {
	if render == nil {
		render = RenderPDF
	}
	return &CertificateService{
		enrollments: enrollments,
		files:       files,
		notifier:    notifier,
		templates:   templates,
		render:      render,
		timeout:     time.Minute,
	}
}

// Issue expects the enrollment with its Course, Course.Instructor and User loaded.
func (s *CertificateService) Issue(enrollment *models.CourseEnrollment) {
	if enrollment.CertificateURL != nil {
		return
	}
	e := *enrollment
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.generate(ctx, &e); err != nil {
			loggers.Log.WithError(err).WithField("enrollment_id", e.ID).Error("🔥 Failed to generate certificate")
		}
	}()
}

func (s *CertificateService) Wait() {
	s.wg.Wait()
}

func (s *CertificateService) generate(ctx context.Context, e *models.CourseEnrollment) error {
	certificateID := uuid.NewString()
	html, err := certificateHTML(e.User.FullName, e.Course.Instructor.FullName, e.Course.Title, certificateID, time.Now())
	if err != nil {
		return fmt.Errorf("render certificate html: %w", err)
	}
	pdf, err := s.render(ctx, html)
	if err != nil {
		return fmt.Errorf("render certificate pdf: %w", err)
	}

	name := fmt.Sprintf("user_%d_course_%d_%s.pdf", e.UserID, e.CourseID, certificateID)
	url, err := s.files.Upload(ctx, bytes.NewReader(pdf), "certificates", name, "application/pdf")
	if err != nil {
		return fmt.Errorf("upload certificate: %w", err)
	}
	if err := s.enrollments.SetCertificateURL(ctx, e.ID, url); err != nil {
		return fmt.Errorf("store certificate url: %w", err)
	}

	loggers.Log.WithField("enrollment_id", e.ID).Info("✅ Generated and uploaded certificate")
	s.notifier.Dispatch(s.templates.CertificateReady(&e.User, &e.Course, url))
	return nil
}

func certificateHTML(studentName, instructorName, courseTitle, certificateID string, completed time.Time) (string, error) {
	data := struct {
		StudentName    string
		InstructorName string
		CourseTitle    string
		CompletionDate string
		CertificateID  string
	}{
		StudentName:    studentName,
		InstructorName: instructorName,
		CourseTitle:    courseTitle,
		CompletionDate: completed.Format("January 2, 2006"),
		CertificateID:  certificateID,
	}

	var rendered bytes.Buffer
	if err := certificateTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// RenderPDF prints html with a headless Chrome instance.
func RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
