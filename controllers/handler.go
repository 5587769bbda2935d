// Package controllers implements the HTTP surface. All state is injected
// through the Handler, built once in main.
package controllers

import (
	"potholemap_server/ai"
	"potholemap_server/config"
	"potholemap_server/storage"
	"potholemap_server/uploads"
	"potholemap_server/websocket"
)

type Handler struct {
	Cfg      *config.Config
	Users    *storage.UserStore
	Reports  *storage.ReportStore
	Engage   *storage.EngagementStore
	Stats    *storage.StatsStore
	Hub      *websocket.Hub
	Detector ai.Detector
	Uploads  *uploads.Manager
}

func New(
	cfg *config.Config,
	users *storage.UserStore,
	reports *storage.ReportStore,
	engage *storage.EngagementStore,
	stats *storage.StatsStore,
	hub *websocket.Hub,
	detector ai.Detector,
	uploadManager *uploads.Manager,
) *Handler {
	return &Handler{
		Cfg:      cfg,
		Users:    users,
		Reports:  reports,
		Engage:   engage,
		Stats:    stats,
		Hub:      hub,
		Detector: detector,
		Uploads:  uploadManager,
	}
}
