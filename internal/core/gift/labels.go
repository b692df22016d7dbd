package gift

const notProvided = "Not provided"

var ageGroupLabels = map[string]string{
	"kids":             "Kids (8–15 years)",
	"teens":            "Teens (15–22 years)",
	"young-adult":      "Young Adult (23–29 years)",
	"genx-millennials": "Gen X / Millennials (30–45 years)",
	"adults":           "Adults (50–60 years)",
	"old-age":          "Old Age (60+ years)",
}

var genderLabels = map[string]string{
	"female":  "Female",
	"male":    "Male",
	"neutral": "Neutral / Prefer not to say",
}

var budgetLabels = map[string]string{
	"safe":    "Safe & Thoughtful (₹800–₹1,500)",
	"premium": "Premium (₹1,500–₹3,000)",
	"all-out": "Go all out (₹3,000+)",
}

var relationshipLabels = map[string]string{
	"partner":   "Romantic partner",
	"friend":    "Friend or sibling (peer)",
	"sibling":   "Brother or sister",
	"parent":    "Parent or older family member",
	"colleague": "Boss or colleague (workplace)",
	"boss":      "Manager or senior at work",
}

var occasionLabels = map[string]string{
	"birthday":        "Birthday",
	"exam-results":    "Good grades / exam results",
	"school-event":    "School competition / sports",
	"special":         "Just to make them feel special",
	"wedding":         "Wedding / festival celebration",
	"congratulations": "Congratulations (promotion / milestone)",
	"anniversary":     "Anniversary",
	"welcome":         "Welcome to the team",
	"period-care":     "Period care",
}

var lifestyleLabels = map[string]string{
	"play":        "Playing or outdoor fun",
	"crafts":      "Toys, crafts or building things",
	"games":       "Cartoons, comics or games",
	"learning":    "Books, puzzles or learning kits",
	"cafe":        "At a café / aesthetic place",
	"working":     "Working or hustling",
	"netflix":     "In pyjamas watching Netflix",
	"socialising": "Out socialising",
	"cooking":     "Cooking or hosting at home",
	"morning":     "Morning rituals (tea / coffee / calm routines)",
	"decor":       "Home decor or keeping things nice",
	"hobbies":     "Quiet hobbies (reading, journaling)",
}

var timeSlotLabels = map[string]string{
	"morning":   "Morning (9 AM - 12 PM)",
	"afternoon": "Afternoon (12 PM - 4 PM)",
	"evening":   "Evening (4 PM - 8 PM)",
}

// label 查表；未知值原樣回傳，空值使用 fallback
func label(table map[string]string, value, fallback string) string {
	if l, ok := table[value]; ok {
		return l
	}
	if value != "" {
		return value
	}
	return fallback
}
