package service

import (
	"context"
	"testing"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestImportDeckParsesAndStoresCards(t *testing.T) {
	store := newFakeStore()
	eventBus := &fakeEventBus{}
	svc := NewDeckService(&fakeFactory{store: store}, eventBus, testLogger{})

	res, err := svc.ImportDeck(context.Background(), &dto.ImportDeckRequest{
		Name:     "Pharm deck",
		FileType: "csv",
		Content:  "What blocks beta receptors?,Beta blockers\nDefine agonist,A ligand that activates its receptor\n",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.CardCount)
	assert.Len(t, store.cards, 2)

	deck := store.decks[res.Id]
	assert.NotNil(t, deck)
	assert.Equal(t, constant.DeckStatusReady, deck.ProcessingStatus)
	assert.Equal(t, 2, deck.CardCount)
	assert.Len(t, deck.VersionHash, 16)

	for _, c := range store.cards {
		assert.Equal(t, res.Id, c.DeckId)
		assert.NotEmpty(t, c.ExternalCardId)
	}

	if assert.Len(t, eventBus.events, 1) {
		assert.Equal(t, "DECK_INGESTED", eventBus.events[0].EventType())
	}
}

func TestImportDeckRejectsEmptyExport(t *testing.T) {
	store := newFakeStore()
	svc := NewDeckService(&fakeFactory{store: store}, nil, testLogger{})

	_, err := svc.ImportDeck(context.Background(), &dto.ImportDeckRequest{
		Name:     "Empty",
		FileType: "csv",
		Content:  "#separator:tab\n\n",
	})

	assert.Error(t, err)
	assert.Empty(t, store.decks)
	assert.Empty(t, store.cards)
}

func TestImportDeckSameContentSameVersionHash(t *testing.T) {
	store := newFakeStore()
	svc := NewDeckService(&fakeFactory{store: store}, nil, testLogger{})
	content := "front,back\n"

	first, err := svc.ImportDeck(context.Background(), &dto.ImportDeckRequest{Name: "a", FileType: "csv", Content: content})
	assert.NoError(t, err)
	second, err := svc.ImportDeck(context.Background(), &dto.ImportDeckRequest{Name: "b", FileType: "csv", Content: content})
	assert.NoError(t, err)

	assert.Equal(t, store.decks[first.Id].VersionHash, store.decks[second.Id].VersionHash)
}

func TestGetDeckUnknownIdFails(t *testing.T) {
	store := newFakeStore()
	svc := NewDeckService(&fakeFactory{store: store}, nil, testLogger{})

	res, err := svc.ImportDeck(context.Background(), &dto.ImportDeckRequest{
		Name:     "Known",
		FileType: "csv",
		Content:  "front,back\n",
	})
	assert.NoError(t, err)

	shown, err := svc.GetDeck(context.Background(), res.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Known", shown.Name)

	_, err = svc.GetDeck(context.Background(), uuid.New())
	assert.Error(t, err)
}
