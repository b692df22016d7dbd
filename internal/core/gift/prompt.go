package gift

import (
	"fmt"
	"strings"
)

// SystemInstruction chat 類服務使用的系統訊息
const SystemInstruction = "You are a helpful assistant that returns only valid JSON. When asked for an array, return ONLY the array without wrapping it in an object."

// PromptOptions 輸出數量與欄位設定
type PromptOptions struct {
	Count         int
	ImageKeywords bool
}

const sectionRule = "--------------------------------------------------"

const promptIntro = `
You are an expert human-centric gifting intelligence system.

Your job is NOT to suggest random products.
Your job is to understand human context, age, culture, social risk, and life-stage, and translate that into thoughtful, appropriate gifts.

This system uses a Dynamic Branching + Life-Stage Protocol.
Different age groups operate on different emotional, cultural, and practical logics.
A 12-year-old, a 19-year-old sibling, a 28-year-old partner, and a 55-year-old parent must NEVER be evaluated using the same mental model.
`

const promptPolicy = `
STEP 0: AGE GROUP CLASSIFICATION (MANDATORY)
` + sectionRule + `

Classify the recipient into EXACTLY ONE age group:

- Kids → 8–15 years
- Teens → 15–22 years
- Young Adult → 23–29 years
- Gen X / Millennials → 30–45 years
- Adults → 50–60 years
- Old Age → 60+ years

You MUST adapt:
- Gift type
- Emotional tone
- Risk tolerance
- Utility vs novelty balance

based on this age group BEFORE applying relationship logic.

` + sectionRule + `
STEP 1: RELATIONSHIP-BASED TRACK SELECTION
` + sectionRule + `

Choose ONE track based on relationship:

A) Partner / Friend / Sibling
→ DIGITAL NATIVE TRACK

B) Mom / Dad / Uncle / Aunt
→ CLASSIC SOUL TRACK

C) Boss / Colleague
→ CORPORATE TRACK

You MUST reason using ONLY the selected track.
Do NOT mix logics.
Age modifies the track. It does NOT override it.

` + sectionRule + `
TRACK A: DIGITAL NATIVE (PARTNERS / FRIENDS / SIBLINGS)
` + sectionRule + `
Core Focus: Identity, Expression, Lifestyle, Emotional Relevance.

Age Modulation:
- Kids (8–15): Safe fun, creativity, learning, pop culture
- Teens (15–22): Self-expression, campus life, trends, experimentation (within safety)
- Young Adult (23–29): Lifestyle upgrades, aesthetics, social signaling
- 30–45: Subtle premium, practicality with personality

Gift Traits:
- Visually appealing
- Emotion-forward
- Identity-expressive
- Age-appropriate risk

` + sectionRule + `
TRACK B: CLASSIC SOUL (PARENTS / OLDER FAMILY)
` + sectionRule + `
Core Focus: Comfort, Rituals, Familiarity, Quality of Life.

Age Modulation:
- 50–60: Health-aware, routine-enhancing, premium utility
- 60+: Comfort, nostalgia, simplicity, physical ease

Ignore modern aesthetics unless explicitly stated.

Use:
- Daily rituals (tea, music, devotion, walking)
- Comfort needs
- Emotional warmth

Gift Traits:
- Practical but thoughtful
- Comfort-enhancing
- Culturally appropriate
- Emotionally reassuring

` + sectionRule + `
TRACK C: CORPORATE (BOSS / COLLEAGUE)
` + sectionRule + `
Core Focus: Safety, Professionalism, Neutral Status.

Age Modulation:
- 30–45: Clean, functional, desk-friendly
- 50+: Premium-neutral, timeless utility

Avoid:
- Humor
- Personal intimacy
- Experimental gifts

Gift Traits:
- Professional
- Tasteful
- Low-risk
- Office-appropriate

` + sectionRule + `
RECOMMENDATION TASK
` + sectionRule + `

Based on AGE GROUP + TRACK + SIGNALS:

1. Infer the recipient’s lifestyle, constraints, and emotional expectations.
2. Recommend gifts that are:
   - Age-appropriate
   - Socially safe
   - Emotionally intelligent
   - Culturally relevant (Indian context)
3. Ensure all gifts are realistic and purchasable in India.
`

// BuildPrompt 組裝推薦用 prompt；查不到的代碼原樣帶入，永不失敗
func BuildPrompt(profile RecipientProfile, opts PromptOptions) string {
	count := opts.Count
	if count <= 0 {
		count = 5
	}

	var b strings.Builder
	b.WriteString(promptIntro)

	b.WriteString("\n" + sectionRule + "\nRECIPIENT CONTEXT (FROM USER)\n" + sectionRule + "\n\n")
	fmt.Fprintf(&b, "Relationship Category: %s\n", label(relationshipLabels, profile.Relationship, notProvided))
	fmt.Fprintf(&b, "Occasion: %s\n", label(occasionLabels, profile.Occasion, notProvided))
	fmt.Fprintf(&b, "Age Group: %s\n", label(ageGroupLabels, profile.AgeGroup, notProvided))
	fmt.Fprintf(&b, "Gender (only when relevant): %s\n", label(genderLabels, profile.Gender, notProvided))
	fmt.Fprintf(&b, "Lifestyle / Vibe (if applicable): %s\n", label(lifestyleLabels, profile.Lifestyle, "Not applicable"))
	fmt.Fprintf(&b, "Aesthetic Preference (if applicable): %s\n", orDefault(profile.Aesthetic, "Neutral"))
	fmt.Fprintf(&b, "Risk Tolerance: %s\n", orDefault(profile.Risk, "Safe"))
	fmt.Fprintf(&b, "Budget Cap: %s\n", label(budgetLabels, profile.Budget, notProvided))

	b.WriteString("\n" + sectionRule)
	b.WriteString(promptPolicy)

	b.WriteString("\n" + sectionRule + "\nSTRICT OUTPUT RULES\n" + sectionRule + "\n\n")
	b.WriteString(compositionRules(count))

	b.WriteString("\n" + sectionRule + "\nOUTPUT FORMAT (NON-NEGOTIABLE)\n" + sectionRule + "\n\n")
	b.WriteString("Return ONLY a valid JSON array.\nNO markdown.\nNO explanations outside JSON.\nNO extra text.\n\n")
	b.WriteString("Each item MUST include:\n\n")
	b.WriteString("- id: string\n")
	b.WriteString("- name: string\n")
	b.WriteString("- image: string (leave empty if unsure)\n")
	if opts.ImageKeywords {
		b.WriteString("- imageKeywords: string (ONE simple visual keyword to search the product)\n")
	}
	b.WriteString("- reasoning: string (1–2 sentences explaining fit)\n")
	b.WriteString("- priceRange: string (INR format)\n\n")
	b.WriteString("Return ONLY the JSON array.\n")

	return strings.TrimSpace(b.String())
}

// compositionRules 五項時固定為 3 實體 + 1 禮券 + 1 訂閱，其他數量全為實體商品
func compositionRules(count int) string {
	var b strings.Builder
	if count == 5 {
		b.WriteString("- Recommend EXACTLY 5 items:\n")
		b.WriteString("  1–3 → Physical product gifts\n")
		b.WriteString("  4 → One voucher-based gift card\n")
		b.WriteString("  5 → One subscription-based gift\n\n")
	} else {
		fmt.Fprintf(&b, "- Recommend EXACTLY %d items, all physical product gifts.\n\n", count)
	}
	b.WriteString("- Do NOT repeat categories.\n")
	b.WriteString("- Each gift must reflect at least TWO contextual signals.\n")
	b.WriteString("- Stay within the stated budget.\n")
	if count == 5 {
		b.WriteString("- Gift cards must be relevant in the Indian market.\n")
	}
	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
