package session

import (
	"time"

	"github.com/ulissesgoncalvess/ferveu/internal/model"
)

// samplePosts seeds the feed, newest first.
func samplePosts(now time.Time) []model.Post {
	return []model.Post{
		{
			ID:        "post1",
			UserID:    "u2",
			UserName:  "Ana Rave",
			UserLevel: model.LevelIncendiario,
			VenueID:   "p2",
			VenueName: "Techno Bunker",
			Content:   "A curadoria de hoje tá impecável. Som absurdo.",
			MediaURL:  "https://images.unsplash.com/photo-1574391884720-bbc37bb01d74?q=80&w=800&auto=format&fit=crop",
			CreatedAt: now.Add(-15 * time.Minute),
			Likes:     24,
		},
		{
			ID:        "post2",
			UserID:    "u3",
			UserName:  "Gui Noite",
			UserLevel: model.LevelFervendo,
			VenueID:   "p3",
			VenueName: "Skyline Rooftop",
			Content:   "Drink gelado e vista perfeita. O radar não errou.",
			MediaURL:  "https://images.unsplash.com/photo-1514362545857-3bc16c4c7d1b?q=80&w=800&auto=format&fit=crop",
			CreatedAt: now.Add(-45 * time.Minute),
			Likes:     12,
		},
	}
}

func sampleMissions() []model.Mission {
	return []model.Mission{
		{
			ID:          "m1",
			Title:       "Pioneiro da Noite",
			Description: "Faça o primeiro check-in em um lugar que ainda está Morno.",
			RewardXP:    100,
			ExpiresIn:   120,
			Kind:        model.MissionCheckIn,
		},
		{
			ID:          "m2",
			Title:       "Diretor de Cena",
			Description: "Poste um vídeo de pelo menos 10s em um lugar Fervendo.",
			RewardXP:    150,
			ExpiresIn:   120,
			Kind:        model.MissionPost,
		},
	}
}
