// Package content holds the static pages: leaderboard, community, resources
// and the landing page stats.
package content

import (
	"sort"
	"strconv"
)

// Performer is one row of the leaderboard
type Performer struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Events int    `json:"events"`
}

// Stat is a labelled headline number
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Topic is a community discussion thread
type Topic struct {
	Title    string `json:"title"`
	Replies  int    `json:"replies"`
	Category string `json:"category"`
}

// ResourceCategory groups project ideas by field
type ResourceCategory struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Community is the community page
type Community struct {
	Stats  []Stat  `json:"stats"`
	Topics []Topic `json:"topics"`
}

var performers = []Performer{
	{Name: "Alex Chen", Points: 2850, Events: 12},
	{Name: "Sarah Kumar", Points: 2640, Events: 11},
	{Name: "Dev Patel", Points: 2420, Events: 10},
	{Name: "Maya Singh", Points: 2180, Events: 9},
	{Name: "Raj Sharma", Points: 1950, Events: 8},
}

// Leaderboard returns performers ordered by points with ranks assigned.
// Equal points share a rank.
func Leaderboard() []Performer {
	out := make([]Performer, len(performers))
	copy(out, performers)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		if i > 0 && out[i].Points == out[i-1].Points {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// CommunityPage returns the community stats and trending topics, busiest first
func CommunityPage() Community {
	topics := []Topic{
		{Title: "Web3 Development Best Practices", Replies: 47, Category: "Blockchain"},
		{Title: "AI/ML Model Optimization Tips", Replies: 32, Category: "Machine Learning"},
		{Title: "React Performance Techniques", Replies: 28, Category: "Frontend"},
		{Title: "Database Design for Scale", Replies: 24, Category: "Backend"},
		{Title: "DevOps Pipeline Setup", Replies: 19, Category: "DevOps"},
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Replies > topics[j].Replies
	})

	return Community{
		Stats: []Stat{
			{Label: "Active Members", Value: "2.5K+"},
			{Label: "Discussions", Value: "1.2K"},
			{Label: "Code Shares", Value: "850"},
			{Label: "Resources", Value: "300+"},
		},
		Topics: topics,
	}
}

// Resources returns the project idea categories
func Resources() []ResourceCategory {
	return []ResourceCategory{
		{Title: "Blockchain Projects", Items: []string{"DeFi Platform Development", "Smart Contract Security", "NFT Marketplace Building", "Cryptocurrency Wallet"}},
		{Title: "AI/ML Projects", Items: []string{"Computer Vision Applications", "Natural Language Processing", "Machine Learning Models", "Deep Learning Frameworks"}},
		{Title: "Web Development", Items: []string{"Full-stack Applications", "Progressive Web Apps", "API Development", "Frontend Frameworks"}},
		{Title: "Cyber Security", Items: []string{"Penetration Testing Tools", "Security Audit Systems", "Encryption Protocols", "Vulnerability Assessment"}},
	}
}

// HeroStats returns the landing page headline numbers. liveEvents is the
// number of live events in the current catalog.
func HeroStats(liveEvents int) []Stat {
	return []Stat{
		{Label: "Live Events", Value: strconv.Itoa(liveEvents)},
		{Label: "Participants", Value: "2.5K+"},
		{Label: "Prize Money", Value: "₹10L+"},
		{Label: "Projects", Value: "500+"},
	}
}
