package router

import (
	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/container"
	pginfra "github.com/ortholink/ortholink-api/internal/infrastructure/postgres"
	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	log := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()
	es := container.GetES()

	users := pginfra.NewUserRepository(pool)
	blogs := pginfra.NewBlogRepository(pool)
	courses := pginfra.NewCourseRepository(pool)
	ebooks := pginfra.NewEbookRepository(pool)
	caseStudies := pginfra.NewCaseStudyRepository(pool)
	testimonials := pginfra.NewTestimonialRepository(pool)
	sessions := pginfra.NewLiveSessionRepository(pool)
	enrollments := pginfra.NewEnrollmentRepository(pool)
	practices := pginfra.NewPracticeRepository(pool)

	authSvc := &app.AuthService{
		Users:        users,
		JWT:          container.GetJWT(),
		Redis:        rdb,
		Mail:         container.GetRabbitPub(),
		Logger:       log,
		IsAdminEmail: cfg.IsAdminEmail,
	}
	blogSvc := &app.BlogService{Blogs: blogs, Redis: rdb, ES: es, ESIndex: cfg.ESContentIndex, Logger: log}
	courseSvc := &app.CourseService{
		Courses:   courses,
		Redis:     rdb,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		ES:        es,
		ESIndex:   cfg.ESContentIndex,
		Logger:    log,
	}
	ebookSvc := &app.EbookService{Ebooks: ebooks, Redis: rdb, ES: es, ESIndex: cfg.ESContentIndex, Logger: log}
	caseStudySvc := &app.CaseStudyService{CaseStudies: caseStudies, Redis: rdb, ES: es, ESIndex: cfg.ESContentIndex, Logger: log}
	testimonialSvc := &app.TestimonialService{Testimonials: testimonials, Logger: log}
	sessionSvc := &app.SessionService{Sessions: sessions, Users: users, Mail: container.GetRabbitPub(), Logger: log}
	enrollmentSvc := &app.EnrollmentService{
		Enrollments: enrollments,
		Courses:     courses,
		Users:       users,
		Mail:        container.GetRabbitPub(),
		Logger:      log,
	}
	directorySvc := &app.DirectoryService{
		Practices: practices,
		Geocoder:  container.GetGeocoder(),
		ES:        es,
		ESIndex:   cfg.ESPracticesIndex,
		Logger:    log,
	}
	mediaSvc := &app.MediaService{GCS: container.GetGCS(), Bucket: cfg.GCSBucket, Logger: log}
	searchSvc := &app.SearchService{ES: es, Indexes: []string{cfg.ESContentIndex, cfg.ESPracticesIndex}}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, log, cfg.CookieDomain, cfg.CookieSecure)))
	r.Add(modules.NewContentModule("/blogs", handlers.NewBlogHandler(blogSvc, log)))
	r.Add(modules.NewCourseModule(handlers.NewCourseHandler(courseSvc, log)))
	r.Add(modules.NewContentModule("/ebooks", handlers.NewEbookHandler(ebookSvc, log)))
	r.Add(modules.NewContentModule("/case-studies", handlers.NewCaseStudyHandler(caseStudySvc, log)))
	r.Add(modules.NewTestimonialModule(handlers.NewTestimonialHandler(testimonialSvc, log)))
	r.Add(modules.NewSessionModule(handlers.NewSessionHandler(sessionSvc, log)))
	r.Add(modules.NewEnrollmentModule(handlers.NewEnrollmentHandler(enrollmentSvc, log)))
	r.Add(modules.NewDirectoryModule(handlers.NewDirectoryHandler(directorySvc, log)))
	r.Add(modules.NewMediaModule(handlers.NewMediaHandler(mediaSvc, log)))
	r.Add(modules.NewSearchModule(handlers.NewSearchHandler(searchSvc, log)))
}
