package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/rollcall-app/rollcall/models"
	"github.com/rollcall-app/rollcall/utils"
)

// MetaController serves static vocabulary the client renders pickers from.
type MetaController struct{}

// NewMetaController creates a new controller instance.
func NewMetaController() *MetaController {
	return &MetaController{}
}

type labelled struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

var sessionTypeLabels = []labelled{
	{ID: models.SessionGi, Label: "Gi", Emoji: "🥋"},
	{ID: models.SessionNoGi, Label: "No-Gi", Emoji: "🩳"},
	{ID: models.SessionOpenMat, Label: "Open Mat", Emoji: "🤼"},
	{ID: models.SessionComp, Label: "Comp Class", Emoji: "🏆"},
	{ID: models.SessionPrivate, Label: "Private", Emoji: "🎯"},
}

var energyLevels = []struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}{
	{1, "Dead", "😵"},
	{2, "Tough", "😮‍💨"},
	{3, "OK", "😐"},
	{4, "Good", "😊"},
	{5, "Great", "🔥"},
}

// GetVocabulary returns session types, energy levels and belt ranks.
func (m *MetaController) GetVocabulary(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"session_types": sessionTypeLabels,
		"energy_levels": energyLevels,
		"belts":         models.Belts,
	})
}
