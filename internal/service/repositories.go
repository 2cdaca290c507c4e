package service

import (
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/repository"
)

// RepositoryFactory opens the repositories reading the files of one run
type RepositoryFactory interface {
	Source(kind domain.SourceKind, path string) domain.SourceRepository
	Recycled(path string) domain.RecycledRepository
}

// FileRepositories opens CSV extracts and the recycled workbook from disk
type FileRepositories struct {
	DefaultDelimiter rune
	GatewayType      domain.TransactionType
}

func (f FileRepositories) Source(kind domain.SourceKind, path string) domain.SourceRepository {
	switch kind {
	case domain.SourcePOS:
		return repository.NewPOSRepository(path, f.DefaultDelimiter)
	case domain.SourceManual:
		return repository.NewManualRepository(path, f.DefaultDelimiter)
	default:
		return repository.NewGatewayRepository(path, f.DefaultDelimiter, f.GatewayType)
	}
}

func (f FileRepositories) Recycled(path string) domain.RecycledRepository {
	return repository.NewXLSXRecycledRepository(path)
}
