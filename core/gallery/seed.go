package gallery

// SeedItems is the catalog the gallery starts with.
func SeedItems() []ItemData {
	return []ItemData{
		{
			Src:         "/images/student-art.jpg",
			Title:       "Student Artwork",
			Description: "Students showcasing their artistic talents and creative expressions through various mediums and cultural projects.",
			Category:    CategoryArt,
		},
		{
			Src:         "/images/student-speech.jpg",
			Title:       "Student Speech",
			Description: "Students developing confidence and communication skills through public speaking activities and presentations.",
			Category:    CategorySpeaking,
		},
		{
			Src:         "/images/leadership-event.jpg",
			Title:       "Leadership Event",
			Description: "School leadership addressing students and community members during important institutional events.",
			Category:    CategoryLeadership,
		},
		{
			Src:         "/images/results.jpg",
			Title:       "Matric 2024 Results",
			Description: "Outstanding academic achievements of our students in Matric 2024 examinations with top performers achieving remarkable scores.",
			Category:    CategoryResults,
		},
		{
			Src:         "/images/results_2.jpg",
			Title:       "Academic Excellence 2024",
			Description: "Celebrating our students' exceptional performance and dedication to academic excellence in the 2024 academic year.",
			Category:    CategoryResults,
		},
	}
}
