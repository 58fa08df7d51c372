package dao

import (
	"time"

	"github.com/haierkeys/clipbook-service/internal/domain"
)

const welcomeContent = "This is your first note in ClipBook-Online! ClipBook is a clean and intuitive application designed for creating, editing, and organizing your thoughts. You can categorize your notes using tags, access them offline, and even install this app on your desktop or mobile device as a Progressive Web App (PWA).\n\n" +
	"Try out our AI-powered features! For long notes, you can use the 'Summarize' feature to get key bullet points. The 'Suggest Tags' feature will intelligently recommend relevant tags based on what you write. You can also customize your experience by switching between light and dark modes.\n\n" +
	"Enjoy a clutter-free and focused writing environment. Happy note-taking!"

const projectIdeasContent = "Brainstorming session for the new quarter.\n\n" +
	"1. Develop a mobile app for budget tracking. Key features should include expense categorization, monthly reports, and savings goals.\n" +
	"2. Create a web platform for local artists to showcase and sell their work. It should have a portfolio section, an e-commerce module, and an event calendar for exhibitions.\n" +
	"3. Launch a podcast series about sustainable living. Topics could include zero-waste lifestyles, renewable energy, and ethical consumerism."

const meetingNotesContent = "Attendees: Alice, Bob, Charlie\nDate: Last Tuesday\n\n" +
	"Agenda:\n- Review of Q2 performance\n- Q3 roadmap discussion\n- Resource allocation\n\n" +
	"Key Takeaways:\n- Q2 sales exceeded targets by 15%.\n" +
	"- The main focus for Q3 will be the launch of \"Project Phoenix\".\n" +
	"- Marketing team needs two additional content creators.\n" +
	"- Engineering will prioritize bug fixes in the first two weeks of the quarter."

// SeedNotes returns the collection a fresh install starts with, timestamped relative to now
// SeedNotes 返回首次安装时的初始笔记集合，时间相对 now 计算
func SeedNotes(now time.Time) domain.NoteCollection {
	day := 24 * time.Hour
	return domain.NoteCollection{
		{
			ID:        domain.WelcomeNoteID,
			Title:     "Welcome to ClipBook",
			Content:   welcomeContent,
			Tags:      []string{"welcome", "getting-started"},
			CreatedAt: now,
			UpdatedAt: now,
			History:   []domain.HistoryEntry{},
		},
		{
			ID:        "note-2",
			Title:     "Project Ideas",
			Content:   projectIdeasContent,
			Tags:      []string{"brainstorming", "projects", "ideas"},
			CreatedAt: now.Add(-day),
			UpdatedAt: now.Add(-day),
			History:   []domain.HistoryEntry{},
		},
		{
			ID:        "note-3",
			Title:     "Meeting Notes: Q3 Planning",
			Content:   meetingNotesContent,
			Tags:      []string{"meeting", "planning", "work"},
			CreatedAt: now.Add(-2 * day),
			UpdatedAt: now.Add(-2 * day),
			History:   []domain.HistoryEntry{},
		},
	}
}
