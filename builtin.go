package chainplan

import "fmt"

// ProductPlanPhases returns the built-in five-phase chain that plans an
// AI-powered interview platform: market research, opportunity analysis,
// product blueprint, technical architecture, and strategic review. Each
// phase receives the relevant earlier outputs through its user template.
func ProductPlanPhases() []Phase {
	return []Phase{
		{
			Name: "research",
			System: `You are a market research analyst. Provide a brief analysis of
3 competitors in AI interview platforms (HireVue, Pymetrics, Codility).
List their key features and identify market gaps in 150 words.`,
			User: "Analyze the current market for AI-powered interview platforms.",
		},
		{
			Name: "analysis",
			System: `You are a product analyst. Based on the market research provided,
identify 3 key market opportunities or gaps for a new AI interview platform.
Be concise in 150 words.`,
			User: `Market research findings:
{{.research}}

Now identify market opportunities and gaps.`,
		},
		{
			Name: "blueprint",
			System: `You are a product designer. Based on the market analysis and opportunities,
create a brief product blueprint including:
- Key features (3-5)
- User journey (2-3 steps)
Keep it concise - 150 words.`,
			User: `Market Analysis:
{{.analysis}}

Create a product blueprint for our platform.`,
		},
		{
			Name: "technical",
			System: `You are a technical architect. Based on the product blueprint provided,
design a technical architecture including:
- Technology stack (frontend, backend, database)
- Key technical components and services
- Scalability and performance considerations
Keep it concise - 150 words.`,
			User: `Product Blueprint:
{{.blueprint}}

Design the technical architecture for this platform.`,
		},
		{
			Name: "review",
			System: `You are a product reviewer and strategist. Review the product blueprint
and technical architecture, then provide 3 strategic recommendations for success.
Be concise - 150 words.`,
			User: `Product Blueprint:
{{.blueprint}}

Technical Architecture:
{{.technical}}

Provide strategic review and recommendations.`,
		},
	}
}

// ConferencePlan parameterizes the built-in conference planning chain.
type ConferencePlan struct {
	Topic     string
	Type      string
	Audience  string
	Location  string
	Dates     string
	Duration  string
	Attendees int
}

// DefaultConferencePlan returns the default conference parameters.
func DefaultConferencePlan() ConferencePlan {
	return ConferencePlan{
		Topic:     "Artificial Intelligence in Healthcare",
		Type:      "professional development",
		Audience:  "healthcare professionals and AI researchers",
		Location:  "San Francisco, CA",
		Dates:     "March 15-17, 2026",
		Duration:  "3-day",
		Attendees: 300,
	}
}

// ConferencePhases returns the built-in five-phase conference planning
// chain: strategy, speaker curation, agenda design, logistics, and
// marketing. Conference parameters are baked into the prompts; earlier
// outputs flow forward through the user templates.
func ConferencePhases(plan ConferencePlan) []Phase {
	return []Phase{
		{
			Name: "strategy",
			System: fmt.Sprintf(`You are an experienced conference strategist with over 10 years of planning
successful industry events. You excel at identifying market needs, defining
clear objectives, and creating compelling conference themes. Your goal is to
define a comprehensive conference strategy for %s, including theme, goals,
target audience, and overall vision.`, plan.Topic),
			User: fmt.Sprintf(`Develop a comprehensive conference strategy for %s targeting %s.
Define the conference theme, core objectives, target audience profile, key
topics to cover, and overall vision. Create a clear foundation that will guide
all subsequent planning decisions.`, plan.Topic, plan.Audience),
		},
		{
			Name: "speakers",
			System: fmt.Sprintf(`You are a renowned speaker curator with extensive industry networks and a keen
eye for engaging speakers. Your goal is to identify and recommend the best
speakers, presenters, and experts for the %s conference, ensuring diverse
perspectives and high-quality content.`, plan.Topic),
			User: fmt.Sprintf(`Conference strategy:
{{.strategy}}

Based on the strategy, identify and recommend speakers for the %s %s
conference: keynote speakers, session presenters, workshop facilitators, and
panel participants. For each recommended speaker, provide their credentials,
relevant experience, and suggested topics.`, plan.Topic, plan.Type),
		},
		{
			Name: "agenda",
			System: fmt.Sprintf(`You are a master agenda architect who designs conference schedules that balance
learning, networking, and engagement. Your goal is to design a detailed %s
conference agenda with well-structured sessions, appropriate timing, and
engaging activities.`, plan.Duration),
			User: fmt.Sprintf(`Conference strategy:
{{.strategy}}

Speaker recommendations:
{{.speakers}}

Create a detailed %s conference agenda for %s (%s): opening and closing
keynotes, breakout sessions, workshops, panel discussions, networking breaks,
lunch periods, and social events. Include session titles, descriptions,
speakers, and time slots.`, plan.Duration, plan.Topic, plan.Dates),
		},
		{
			Name: "logistics",
			System: fmt.Sprintf(`You are a detail-oriented logistics coordinator with years of experience
managing complex events. Your goal is to plan all logistical aspects of the
conference in %s: venue selection, catering, accommodations, and operational
details.`, plan.Location),
			User: fmt.Sprintf(`Conference agenda:
{{.agenda}}

Plan all logistical aspects for the conference in %s (%s) with an expected
attendance of %d people: venue options with main sessions, breakout rooms, and
networking spaces; catering (coffee breaks, lunch, reception); accommodation
recommendations; transportation. Provide practical recommendations with cost
considerations.`, plan.Location, plan.Dates, plan.Attendees),
		},
		{
			Name: "marketing",
			System: fmt.Sprintf(`You are a creative marketing specialist with a proven track record of
promoting successful conferences. Your goal is to develop a comprehensive
marketing strategy to promote the %s conference and attract the target
audience.`, plan.Topic),
			User: fmt.Sprintf(`Conference strategy:
{{.strategy}}

Conference agenda:
{{.agenda}}

Develop a comprehensive marketing strategy to promote the conference (%s) to
%s: social media campaigns, email marketing, content marketing, partnerships,
and event listings. Include key messaging, a promotional timeline, an early
bird pricing strategy, and engagement tactics.`, plan.Dates, plan.Audience),
		},
	}
}
