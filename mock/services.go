package mock

import (
	"context"
	"io"

	"github.com/fwojciec/humdesk"
	"github.com/google/uuid"
)

// Interface compliance checks.
var (
	_ humdesk.ConversationService = (*ConversationService)(nil)
	_ humdesk.DocumentService     = (*DocumentService)(nil)
	_ humdesk.DriveService        = (*DriveService)(nil)
	_ humdesk.HumdataService      = (*HumdataService)(nil)
)

// ConversationService is a test double for humdesk.ConversationService.
// Set the function fields for the methods you need.
type ConversationService struct {
	ListConversationsFn   func(ctx context.Context) ([]humdesk.Conversation, error)
	CreateConversationFn  func(ctx context.Context, title string) (humdesk.Conversation, error)
	GetConversationFn     func(ctx context.Context, id uuid.UUID) (humdesk.Conversation, error)
	MessagesFn            func(ctx context.Context, id uuid.UUID) ([]humdesk.Message, error)
	SendMessageFn         func(ctx context.Context, req humdesk.ChatRequest) (humdesk.ChatResult, error)
	RenameConversationFn  func(ctx context.Context, id uuid.UUID, title string) error
	ArchiveConversationFn func(ctx context.Context, id uuid.UUID) error
	DeleteConversationFn  func(ctx context.Context, id uuid.UUID) error
	ExportConversationFn  func(ctx context.Context, id uuid.UUID, format humdesk.ExportFormat) (io.ReadCloser, error)
}

func (s *ConversationService) ListConversations(ctx context.Context) ([]humdesk.Conversation, error) {
	return s.ListConversationsFn(ctx)
}

func (s *ConversationService) CreateConversation(ctx context.Context, title string) (humdesk.Conversation, error) {
	return s.CreateConversationFn(ctx, title)
}

func (s *ConversationService) GetConversation(ctx context.Context, id uuid.UUID) (humdesk.Conversation, error) {
	return s.GetConversationFn(ctx, id)
}

func (s *ConversationService) Messages(ctx context.Context, id uuid.UUID) ([]humdesk.Message, error) {
	return s.MessagesFn(ctx, id)
}

func (s *ConversationService) SendMessage(ctx context.Context, req humdesk.ChatRequest) (humdesk.ChatResult, error) {
	return s.SendMessageFn(ctx, req)
}

func (s *ConversationService) RenameConversation(ctx context.Context, id uuid.UUID, title string) error {
	return s.RenameConversationFn(ctx, id, title)
}

func (s *ConversationService) ArchiveConversation(ctx context.Context, id uuid.UUID) error {
	return s.ArchiveConversationFn(ctx, id)
}

func (s *ConversationService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.DeleteConversationFn(ctx, id)
}

func (s *ConversationService) ExportConversation(ctx context.Context, id uuid.UUID, format humdesk.ExportFormat) (io.ReadCloser, error) {
	return s.ExportConversationFn(ctx, id, format)
}

// DocumentService is a test double for humdesk.DocumentService.
type DocumentService struct {
	ListFilesFn    func(ctx context.Context) ([]humdesk.File, error)
	DownloadFileFn func(ctx context.Context, name string) (io.ReadCloser, error)
	UploadFilesFn  func(ctx context.Context, files ...humdesk.UploadFile) (humdesk.UploadResult, error)
}

func (s *DocumentService) ListFiles(ctx context.Context) ([]humdesk.File, error) {
	return s.ListFilesFn(ctx)
}

func (s *DocumentService) DownloadFile(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.DownloadFileFn(ctx, name)
}

func (s *DocumentService) UploadFiles(ctx context.Context, files ...humdesk.UploadFile) (humdesk.UploadResult, error) {
	return s.UploadFilesFn(ctx, files...)
}

// DriveService is a test double for humdesk.DriveService.
type DriveService struct {
	LoginURLFn    func(p humdesk.DriveProvider) string
	ListDriveFn   func(ctx context.Context, p humdesk.DriveProvider, query string) ([]humdesk.DriveItem, error)
	ImportDriveFn func(ctx context.Context, p humdesk.DriveProvider, id string) (humdesk.File, error)
}

func (s *DriveService) LoginURL(p humdesk.DriveProvider) string {
	return s.LoginURLFn(p)
}

func (s *DriveService) ListDrive(ctx context.Context, p humdesk.DriveProvider, query string) ([]humdesk.DriveItem, error) {
	return s.ListDriveFn(ctx, p, query)
}

func (s *DriveService) ImportDrive(ctx context.Context, p humdesk.DriveProvider, id string) (humdesk.File, error) {
	return s.ImportDriveFn(ctx, p, id)
}

// HumdataService is a test double for humdesk.HumdataService.
type HumdataService struct {
	CrisesFn  func(ctx context.Context, q humdesk.CrisisQuery) ([]humdesk.Crisis, error)
	JobsFn    func(ctx context.Context, q humdesk.JobQuery) ([]humdesk.Job, error)
	FundingFn func(ctx context.Context, q humdesk.FundingQuery) ([]humdesk.FundingRecord, error)
}

func (s *HumdataService) Crises(ctx context.Context, q humdesk.CrisisQuery) ([]humdesk.Crisis, error) {
	return s.CrisesFn(ctx, q)
}

func (s *HumdataService) Jobs(ctx context.Context, q humdesk.JobQuery) ([]humdesk.Job, error) {
	return s.JobsFn(ctx, q)
}

func (s *HumdataService) Funding(ctx context.Context, q humdesk.FundingQuery) ([]humdesk.FundingRecord, error) {
	return s.FundingFn(ctx, q)
}
