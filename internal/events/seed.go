package events

var seedEvents = []Event{
	{ID: "1", Title: "Community Diwali Celebration", Date: "2025-11-12", Time: "6:00 PM - 10:00 PM", Location: "Community Hall", Description: "Join us for a grand Diwali celebration with cultural programs, food stalls, and fireworks.", Organizer: "Residents Association", Category: Special},
	{ID: "6", Title: "Christmas Carol Night", Date: "2025-12-24", Time: "7:00 PM - 10:00 PM", Location: "Community Garden", Description: "Celebrate Christmas with carol singing, hot chocolate, and festive decorations.", Organizer: "Cultural Committee", Category: Special},
	{ID: "7", Title: "New Year Party", Date: "2025-12-31", Time: "9:00 PM - 1:00 AM", Location: "Rooftop Terrace", Description: "Ring in the New Year with music, dancing, and a spectacular fireworks display.", Organizer: "Residents Association", Category: Special},
	{ID: "8", Title: "Holi Festival Celebration", Date: "2025-03-14", Time: "10:00 AM - 2:00 PM", Location: "Community Garden", Description: "Celebrate the festival of colors with organic colors, traditional sweets, and music.", Organizer: "Cultural Committee", Category: Special},
	{ID: "9", Title: "Eid Celebration", Date: "2025-04-10", Time: "7:00 PM - 10:00 PM", Location: "Community Hall", Description: "Join us for Eid festivities with traditional food, cultural performances, and community bonding.", Organizer: "Cultural Committee", Category: Special},
	{ID: "10", Title: "Ganesh Chaturthi Festival", Date: "2025-08-29", Time: "6:00 PM - 9:00 PM", Location: "Community Hall", Description: "Celebrate Lord Ganesha with prayers, cultural programs, and traditional sweets.", Organizer: "Spiritual Committee", Category: Special},
	{ID: "2", Title: "Yoga & Wellness Session", Date: "2025-11-15", Time: "7:00 AM - 8:00 AM", Location: "Garden Area", Description: "Start your day with rejuvenating yoga and meditation session led by certified instructor.", Organizer: "Health Committee", Category: Regular},
	{ID: "3", Title: "Kids Fun Day", Date: "2025-11-18", Time: "4:00 PM - 7:00 PM", Location: "Playground", Description: "Fun activities, games, and competitions for children of all ages. Prizes to be won!", Organizer: "Parents Committee", Category: Regular},
	{ID: "4", Title: "Monthly Society Meeting", Date: "2025-11-20", Time: "7:30 PM - 9:00 PM", Location: "Conference Room", Description: "Monthly meeting to discuss society matters, maintenance updates, and upcoming projects.", Organizer: "Management Committee", Category: Regular},
	{ID: "5", Title: "Community Clean-up Drive", Date: "2025-11-25", Time: "8:00 AM - 11:00 AM", Location: "Community Premises", Description: "Join hands to keep our community clean and green. Refreshments will be provided.", Organizer: "Environment Committee", Category: Regular},
	{ID: "11", Title: "Senior Citizens Health Camp", Date: "2025-12-05", Time: "9:00 AM - 1:00 PM", Location: "Community Hall", Description: "Free health checkup for senior citizens with qualified doctors and health professionals.", Organizer: "Health Committee", Category: Regular},
	{ID: "12", Title: "Swimming Pool Maintenance", Date: "2025-12-10", Time: "6:00 AM - 12:00 PM", Location: "Swimming Pool Area", Description: "Monthly pool cleaning and maintenance. Pool will be closed during this time.", Organizer: "Maintenance Team", Category: Regular},
}

// SeedEvents returns a copy of the compiled-in event board
func SeedEvents() []Event {
	return append([]Event(nil), seedEvents...)
}
