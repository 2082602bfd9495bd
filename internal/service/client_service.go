package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrVideoAssignmentNotFound = errors.New("video assignment not found")
)

// --- Service Interface ---

// ClientService covers the client-side read operations that are not part of
// the calendar itself.
type ClientService interface {
	GetAssignedVideos(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoAssignment, error)
	GetVideoDownloadURL(ctx context.Context, clientID, videoAssignmentID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// clientService implements the ClientService interface.
type clientService struct {
	videoRepo       repository.VideoRepository
	videoAssignRepo repository.VideoAssignmentRepository
	fileStorage     storage.FileStorage
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	videoRepo repository.VideoRepository,
	videoAssignRepo repository.VideoAssignmentRepository,
	fileStorage storage.FileStorage,
) ClientService {
	return &clientService{
		videoRepo:       videoRepo,
		videoAssignRepo: videoAssignRepo,
		fileStorage:     fileStorage,
	}
}

// GetAssignedVideos lists every video assignment for the client, dated or not.
func (s *clientService) GetAssignedVideos(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoAssignment, error) {
	return s.videoAssignRepo.GetByClientID(ctx, clientID)
}

// GetVideoDownloadURL resolves a video assignment to a short-lived presigned
// GET URL. The client must own the assignment; the raw object key is never
// exposed.
func (s *clientService) GetVideoDownloadURL(ctx context.Context, clientID, videoAssignmentID primitive.ObjectID) (string, error) {
	assignment, err := s.videoAssignRepo.GetByID(ctx, videoAssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrVideoAssignmentNotFound
		}
		return "", err
	}
	if assignment.ClientID != clientID {
		return "", ErrVideoAssignmentNotFound
	}

	video, err := s.videoRepo.GetByID(ctx, assignment.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrVideoNotFound
		}
		return "", err
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, video.S3ObjectKey, storage.DefaultPresignedURLExpiry)
}
