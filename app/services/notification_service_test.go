package services

import (
	"testing"

	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead() *models.EstimationLead {
	return &models.EstimationLead{
		ID:           7,
		ProjectType:  "2BHK",
		ServiceClass: "Standard",
		AreaSqm:      50,
		TotalFils:    11000000,
		Phone:        utils.ToPtr("+971501234567"),
		Email:        utils.ToPtr("client@example.com"),
		ContactName:  utils.ToPtr("Sara Ahmed"),
	}
}

func TestNotificationService(t *testing.T) {
	t.Run("SendLeadAlert", func(t *testing.T) {
		provider := NewMockEmailProvider()
		svc := NewNotificationService(provider, "studio@breezeline.example")

		require.NoError(t, svc.SendLeadAlert(sampleLead()))
		require.Equal(t, 1, provider.SentCount())

		sent := provider.LastSent()
		assert.Equal(t, "studio@breezeline.example", sent.To)
		assert.Contains(t, sent.Subject, "lead #7")
		assert.Contains(t, sent.Body, "2BHK")
		assert.Contains(t, sent.Body, "AED 110,000.00")
		assert.Contains(t, sent.Body, "Sara Ahmed")
	})

	t.Run("AlertShowsDashesForMissingContact", func(t *testing.T) {
		provider := NewMockEmailProvider()
		svc := NewNotificationService(provider, "studio@breezeline.example")

		lead := sampleLead()
		lead.Phone = nil
		lead.Email = nil
		lead.ContactName = nil
		require.NoError(t, svc.SendLeadAlert(lead))
		assert.Contains(t, provider.LastSent().Body, "-")
	})

	t.Run("AlertRequiresAdminEmail", func(t *testing.T) {
		svc := NewNotificationService(NewMockEmailProvider(), "")
		assert.Error(t, svc.SendLeadAlert(sampleLead()))
	})

	t.Run("SendLeadConfirmation", func(t *testing.T) {
		provider := NewMockEmailProvider()
		svc := NewNotificationService(provider, "studio@breezeline.example")

		require.NoError(t, svc.SendLeadConfirmation(sampleLead()))
		require.Equal(t, 1, provider.SentCount())

		sent := provider.LastSent()
		assert.Equal(t, "client@example.com", sent.To)
		assert.Contains(t, sent.Body, "Dear Sara Ahmed")
		assert.Contains(t, sent.Body, "AED 110,000.00")
	})

	t.Run("ConfirmationFallsBackToGenericSalutation", func(t *testing.T) {
		provider := NewMockEmailProvider()
		svc := NewNotificationService(provider, "studio@breezeline.example")

		lead := sampleLead()
		lead.ContactName = nil
		require.NoError(t, svc.SendLeadConfirmation(lead))
		assert.Contains(t, provider.LastSent().Body, "Dear client")
	})

	t.Run("ConfirmationRequiresLeadEmail", func(t *testing.T) {
		provider := NewMockEmailProvider()
		svc := NewNotificationService(provider, "studio@breezeline.example")

		lead := sampleLead()
		lead.Email = nil
		assert.Error(t, svc.SendLeadConfirmation(lead))
		assert.Zero(t, provider.SentCount())
	})

	t.Run("ProviderFailureSurfaces", func(t *testing.T) {
		provider := NewMockEmailProvider()
		provider.Fail = true
		svc := NewNotificationService(provider, "studio@breezeline.example")

		assert.Error(t, svc.SendLeadAlert(sampleLead()))
		assert.Zero(t, provider.SentCount())
	})
}
