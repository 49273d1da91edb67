package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// MediaService enriches vocabulary terms with pronunciation audio and
// illustration images fetched from external providers and stored in
// MinIO. Enrichment is best effort: a term without media is still fully
// usable, so failures are logged and swallowed.
type MediaService struct {
	appContext.DefaultService
	minioSvc *MinIOService

	httpClient *http.Client
	ttsURL     string
	imageURL   string
	baseURL    string
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.ttsURL = os.Getenv("TTS_SERVICE_URL")
	svc.imageURL = os.Getenv("IMAGE_SERVICE_URL")

	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	svc.httpClient = &http.Client{Timeout: 30 * time.Second}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// EnrichTermAsync kicks off media generation for a term in the
// background. Callers never wait on the result.
func (svc *MediaService) EnrichTermAsync(department, term string) {
	if svc.minioSvc == nil || (svc.ttsURL == "" && svc.imageURL == "") {
		return
	}

	go func() {
		if err := svc.enrichTerm(department, term); err != nil {
			log.WithError(err).WithField("term", term).Warn("media enrichment failed")
		}
	}()
}

func (svc *MediaService) enrichTerm(department, term string) error {
	if svc.ttsURL != "" {
		objectName := audioObjectName(department, term)
		if !svc.minioSvc.ObjectExists(objectName) {
			if err := svc.fetchAndStore(svc.ttsURL, term, objectName, "audio/mpeg"); err != nil {
				return fmt.Errorf("tts: %w", err)
			}
		}
	}

	if svc.imageURL != "" {
		objectName := imageObjectName(department, term)
		if !svc.minioSvc.ObjectExists(objectName) {
			if err := svc.fetchAndStore(svc.imageURL, term, objectName, "image/png"); err != nil {
				return fmt.Errorf("image: %w", err)
			}
		}
	}

	return nil
}

func (svc *MediaService) fetchAndStore(baseURL, term, objectName, contentType string) error {
	reqURL := fmt.Sprintf("%s?text=%s", baseURL, url.QueryEscape(term))

	resp, err := svc.httpClient.Get(reqURL)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("provider returned an empty body")
	}

	_, err = svc.minioSvc.UploadFile(objectName, bytes.NewReader(data), int64(len(data)), contentType)
	return err
}

// TermMediaURLs returns presigned URLs for a term's media if present.
// Either URL may be empty.
func (svc *MediaService) TermMediaURLs(department, term string) (audioURL, imageURL string) {
	if svc.minioSvc == nil {
		return "", ""
	}

	audioObj := audioObjectName(department, term)
	if svc.minioSvc.ObjectExists(audioObj) {
		if u, err := svc.minioSvc.GetFileURL(audioObj, 24*time.Hour); err == nil {
			audioURL = u
		}
	}

	imageObj := imageObjectName(department, term)
	if svc.minioSvc.ObjectExists(imageObj) {
		if u, err := svc.minioSvc.GetFileURL(imageObj, 24*time.Hour); err == nil {
			imageURL = u
		}
	}

	return audioURL, imageURL
}

func audioObjectName(department, term string) string {
	return fmt.Sprintf("audio/%s/%s.mp3", department, term)
}

func imageObjectName(department, term string) string {
	return fmt.Sprintf("illustrations/%s/%s.png", department, term)
}
