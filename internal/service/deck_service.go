package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/dto"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/specification"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/pkg/anki"
	"deck-align-be/pkg/events"

	"github.com/google/uuid"
)

type IDeckService interface {
	ImportDeck(ctx context.Context, req *dto.ImportDeckRequest) (*dto.ImportDeckResponse, error)
	GetDeck(ctx context.Context, id uuid.UUID) (*dto.ShowDeckResponse, error)
}

type deckService struct {
	uowFactory unitofwork.RepositoryFactory
	eventBus   EventPublisher
	log        logger.ILogger
}

func NewDeckService(uowFactory unitofwork.RepositoryFactory, eventBus EventPublisher, log logger.ILogger) IDeckService {
	return &deckService{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		log:        log,
	}
}

func (s *deckService) ImportDeck(ctx context.Context, req *dto.ImportDeckRequest) (*dto.ImportDeckResponse, error) {
	parsed, err := anki.Parse(strings.NewReader(req.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck export: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("deck export contains no cards")
	}

	sum := sha256.Sum256([]byte(req.Content))
	versionHash := hex.EncodeToString(sum[:])[:16]

	deck := &entity.Deck{
		Id:               uuid.New(),
		Name:             req.Name,
		FileType:         req.FileType,
		VersionHash:      versionHash,
		ProcessingStatus: constant.DeckStatusProcessing,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.DeckRepository().Create(ctx, deck); err != nil {
		uow.Rollback()
		return nil, err
	}

	cards := make([]*entity.RawCard, 0, len(parsed))
	for _, c := range parsed {
		cards = append(cards, &entity.RawCard{
			Id:             uuid.New(),
			DeckId:         deck.Id,
			ExternalCardId: c.ExternalId,
			FrontRaw:       c.FrontRaw,
			FrontText:      c.Front,
			BackText:       c.Back,
			Tags:           c.Tags,
		})
	}
	if err := uow.RawCardRepository().CreateBulk(ctx, cards); err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to store cards: %w", err)
	}

	deck.ProcessingStatus = constant.DeckStatusReady
	deck.CardCount = len(cards)
	if err := uow.DeckRepository().Update(ctx, deck); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.NewDeckIngested(deck.Id, len(cards))); err != nil {
			s.log.Warn("deck", "event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.log.Info("deck", "deck imported", map[string]interface{}{
		"deck_id":    deck.Id.String(),
		"card_count": len(cards),
	})
	return &dto.ImportDeckResponse{
		Id:        deck.Id,
		CardCount: len(cards),
	}, nil
}

func (s *deckService) GetDeck(ctx context.Context, id uuid.UUID) (*dto.ShowDeckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	deck, err := uow.DeckRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, fmt.Errorf("deck %s not found", id)
	}
	return &dto.ShowDeckResponse{
		Id:               deck.Id,
		Name:             deck.Name,
		FileType:         deck.FileType,
		VersionHash:      deck.VersionHash,
		ProcessingStatus: deck.ProcessingStatus,
		CardCount:        deck.CardCount,
		CreatedAt:        deck.CreatedAt,
		UpdatedAt:        deck.UpdatedAt,
	}, nil
}
