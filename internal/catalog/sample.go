package catalog

import (
	"time"

	"github.com/existflow/hackersunity/internal/model"
)

func wall(year int, month time.Month, day, hour int) model.Timestamp {
	return model.NewTimestamp(time.Date(year, month, day, hour, 0, 0, 0, time.UTC))
}

// SampleEvents returns the built-in events shown when the backend has none.
// A fresh slice is returned on every call.
func SampleEvents() []model.Event {
	return []model.Event{
		{
			ID:           "1",
			Title:        "Hacker's Unity 2025 Spring Hackathon",
			Description:  "Build innovative solutions for real-world problems in 36 hours. Join developers worldwide to create impactful technology.",
			Status:       model.StatusLive,
			Type:         "Hackathon",
			PrizePool:    "₹1,50,000",
			Participants: "850/1000",
			Location:     "Delhi NCR",
			StartDate:    wall(2025, time.December, 20, 9),
			EndDate:      wall(2025, time.December, 22, 18),
			TeamSize:     "1-4 members",
			Tags:         []string{"Open Innovation", "Healthcare", "Education", "Climate"},
		},
		{
			ID:           "2",
			Title:        "AI Innovation Challenge 2025",
			Description:  "Leverage AI to create solutions that matter. Build intelligent systems that solve real-world challenges using cutting-edge technology.",
			Status:       model.StatusUpcoming,
			Type:         "Challenge",
			PrizePool:    "₹2,00,000",
			Participants: "420/500",
			Location:     "Hybrid",
			StartDate:    wall(2025, time.March, 29, 10),
			EndDate:      wall(2025, time.March, 31, 17),
			TeamSize:     "1-4 members",
			Tags:         []string{"AI/ML", "Computer Vision", "NLP", "Data Science"},
		},
		{
			ID:           "3",
			Title:        "Web3 Builders Bootcamp",
			Description:  "Create the next generation of decentralized applications. Learn and build with Web3 technologies, smart contracts, and DeFi protocols.",
			Status:       model.StatusUpcoming,
			Type:         "Bootcamp",
			PrizePool:    "₹3,00,000",
			Participants: "1000+",
			Location:     "Online",
			StartDate:    wall(2025, time.April, 15, 8),
			EndDate:      wall(2025, time.April, 17, 20),
			TeamSize:     "1-4 members",
			Tags:         []string{"Web3", "DeFi", "Smart Contracts", "DAOs"},
		},
	}
}
