package handlers

import (
	"net/http"

	venueRepo "courtagent/database/repository/venue"
	"courtagent/models"
	"courtagent/utils"

	"github.com/gin-gonic/gin"
)

// VenueHandler serves the venue catalog.
type VenueHandler struct {
	Repo venueRepo.VenueRepository
}

func NewVenueHandler(repo venueRepo.VenueRepository) *VenueHandler {
	return &VenueHandler{Repo: repo}
}

func (h *VenueHandler) ListVenues(c *gin.Context) {
	venues, err := h.Repo.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list venues", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	venue, err := h.Repo.GetByID(c.Request.Context(), c.Param("venueID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch venue", err.Error())
		return
	}
	if venue == nil {
		utils.JSONError(c, http.StatusNotFound, "venue not found", c.Param("venueID"))
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) UpsertVenue(c *gin.Context) {
	var venue models.VenueConfig
	if err := c.ShouldBindJSON(&venue); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid venue", err.Error())
		return
	}
	if err := h.Repo.Upsert(c.Request.Context(), venue); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save venue", err.Error())
		return
	}
	c.JSON(http.StatusOK, venue)
}
