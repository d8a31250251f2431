package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func TestCreditNote_TransitionTo(t *testing.T) {
	n := &entity.CreditNote{State: entity.NoteStatePendiente}
	assert.NoError(t, n.TransitionTo(entity.NoteStateEnviado))
	assert.NoError(t, n.TransitionTo(entity.NoteStateAceptado))
	assert.Error(t, n.TransitionTo(entity.NoteStateRechazado), "ACEPTADO es final")
	assert.Error(t, n.TransitionTo(entity.NoteStatePendiente))
	assert.Equal(t, entity.NoteStateAceptado, n.State)
}

func TestCreditNote_RetryFromRechazado(t *testing.T) {
	n := &entity.CreditNote{State: entity.NoteStatePendiente}
	assert.NoError(t, n.TransitionTo(entity.NoteStateRechazado))
	assert.Error(t, n.TransitionTo(entity.NoteStatePendiente))
	assert.NoError(t, n.TransitionTo(entity.NoteStateEnviado))
	assert.Equal(t, entity.NoteStateEnviado, n.State)
}

func TestThirdParty_DisplayName(t *testing.T) {
	p := &entity.ThirdParty{FirstName: "Ana", FirstSurname: "Gómez", SecondSurname: "Ruiz"}
	assert.Equal(t, "Ana Gómez Ruiz", p.DisplayName())
	assert.False(t, p.IsCompany())

	c := &entity.ThirdParty{IdentificationType: "NIT", BusinessName: "Clínica Sur S.A.S."}
	assert.Equal(t, "Clínica Sur S.A.S.", c.DisplayName())
	assert.True(t, c.IsCompany())
}
