package server

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bardbox/bardbox/internal/asset"
	"github.com/bardbox/bardbox/internal/playback"
	"github.com/bardbox/bardbox/internal/registry"
)

// renameRequest asks for an asset to be renamed; new_name may omit the
// extension, which is then carried over from old_name.
type renameRequest struct {
	Type    string `json:"type" binding:"required"`
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// mapRequest assigns assets and a label to a slot. The embedded patch keeps
// the omitted-versus-null distinction for each field.
type mapRequest struct {
	SlotID int `json:"slot_id" binding:"required"`
	registry.Patch
}

// deleteRequest asks for an asset to be deleted.
type deleteRequest struct {
	Type     string `json:"type" binding:"required"`
	Filename string `json:"filename" binding:"required"`
}

// getData returns the slots plus the music and icon listings
func (s *Server) getData(c *gin.Context) {
	snapshot, err := s.library.Snapshot()
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, snapshot)
}

// playMusic starts looping playback of a music asset
func (s *Server) playMusic(c *gin.Context) {
	filename := c.Param("filename")

	if err := s.playback.Play(filename); err != nil {
		if errors.Is(err, playback.ErrAssetNotFound) {
			slog.Error("File not found", "filename", filename)
			c.JSON(404, gin.H{"status": "error"})
			return
		}
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	slog.Info("Playback started", "filename", filename)
	c.JSON(200, gin.H{"status": "playing"})
}

// stopMusic stops playback
func (s *Server) stopMusic(c *gin.Context) {
	s.playback.Stop()
	c.JSON(200, gin.H{"status": "stopped"})
}

// setVolume applies a clamped volume level
func (s *Server) setVolume(c *gin.Context) {
	level, err := strconv.ParseFloat(c.Param("level"), 64)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "invalid volume level"})
		return
	}

	clamped := s.playback.SetVolume(level)
	c.JSON(200, gin.H{"status": "volume_set", "level": clamped})
}

// renameAsset renames a file and updates every slot referencing it
func (s *Server) renameAsset(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "No data provided"})
		return
	}

	assetType, err := asset.ParseType(req.Type)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if _, err := s.library.Rename(assetType, req.OldName, req.NewName); err != nil {
		if errors.Is(err, asset.ErrNotFound) || errors.Is(err, asset.ErrConflict) {
			c.JSON(400, gin.H{"status": "error", "message": "Path conflict or missing source"})
			return
		}
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "renamed"})
}

// mapToSlot applies a partial update to one slot
func (s *Server) mapToSlot(c *gin.Context) {
	var req mapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := s.library.UpdateSlot(req.SlotID, req.Patch); err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "mapped"})
}

// unmapSlot resets a slot to its defaults
func (s *Server) unmapSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "invalid slot id"})
		return
	}

	if err := s.library.ClearSlot(slotID); err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "unmapped"})
}

// uploadMusic stores an uploaded music file
func (s *Server) uploadMusic(c *gin.Context) {
	s.upload(c, asset.TypeMusic)
}

// uploadIcon stores an uploaded icon image
func (s *Server) uploadIcon(c *gin.Context) {
	s.upload(c, asset.TypeIcon)
}

func (s *Server) upload(c *gin.Context, t asset.Type) {
	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		c.JSON(400, gin.H{"status": "error"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(400, gin.H{"status": "error"})
		return
	}
	defer file.Close()

	if err := s.library.Upload(t, header.Filename, file); err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "uploaded"})
}

// deleteAsset removes a file and clears every slot referencing it
func (s *Server) deleteAsset(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "No data provided"})
		return
	}

	assetType, err := asset.ParseType(req.Type)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := s.library.Delete(assetType, req.Filename); err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			c.JSON(404, gin.H{"status": "error"})
			return
		}
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "deleted"})
}

// runBackup copies the library to the configured bucket
func (s *Server) runBackup(c *gin.Context) {
	count, err := s.backup.Run(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"status": "backed_up", "files": count})
}
