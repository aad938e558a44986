package constant

const (
	ChatMessageRoleUser = "user"

	// Free-form chat proxy
	ChatTemperature = 0.7
	ChatMaxTokens   = 1000

	// Generation
	GenerateTemperature = 0.6
	GenerateMaxTokens   = 800

	// Evaluation, per mode
	EvalIELTSTemperature    = 0.4
	EvalIELTSMaxTokens      = 600
	EvalJobTemperature      = 0.5
	EvalSpeakingTemperature = 0.6
	EvalMaxTokens           = 600

	IELTSGeneratePrompt = `You are an expert IELTS speaking examiner. Produce a structured JSON object:
{
  "part1": [ /* 5 short conversational questions */ ],
  "part2": [ /* 1 cue card (provided by the server) */ ],
  "part3": [ /* 3 deeper follow-up discussion questions */ ]
}
Rules:
- Use exactly 5 concise Part 1 questions (6-14 words).
- Use the exact cue card from the server for part2.
- Create exactly 3 logical follow-up questions for part3, related to the cue card.
Return only valid JSON, no explanations.

ServerProvidedCueCard: "%s"
Instructions: Use the provided cue card exactly as given.`

	// args: field, field
	JobGeneratePrompt = `You are an HR interviewer for a %s position.
Generate exactly 10 realistic job interview questions in the %s field.
Each question should be between 8-18 words long and natural for a spoken interview.

Return ONLY this valid JSON:
{
  "questions": ["q1", "q2", "q3", ..., "q10"]
}`

	SpeakingGeneratePrompt = `You are an IELTS Speaking and Communication Coach.
Generate 10-15 realistic spoken English questions related to the topic "%s".
Each question should sound natural, conversational, and suitable for practicing fluency and communication.
Avoid numbering, extra comments, or formatting.
Return ONLY this valid JSON:
{
  "questions": ["q1", "q2", "q3", ..., "q15"]
}`

	// args: question, answer
	IELTSEvaluatePrompt = `You are an IELTS speaking examiner. Evaluate the given user answer for the provided IELTS speaking question.
Provide:
1. Band score (1-9) based on fluency, coherence, lexical resource, and grammatical range & accuracy.
2. Feedback explaining why the answer got this band and how to improve it.
3. A Band 9 model answer for this question.

Format your response strictly as JSON with this structure:
{
  "band": 8,
  "feedback": "Your feedback here...",
  "band9_answer": "Your Band 9 model answer here..."
}

Question: "%s"
UserAnswer: "%s"`

	// Part 2 answers are long turns; the model answer should follow the cue card bullets.
	IELTSCueCardEvaluatePrompt = `You are an IELTS speaking examiner. The question is a Part 2 cue card and the user spoke for up to two minutes.
Judge whether the answer covers the cue card points:
- what or who it is
- when it happened
- where it happened
- why it matters
- how you felt about it
Provide:
1. Band score (1-9) based on fluency, coherence, lexical resource, and grammatical range & accuracy.
2. Feedback explaining why the answer got this band, naming any cue card point that was missed.
3. A Band 9 model answer that walks through the same five points in order, in natural spoken English.

Format your response strictly as JSON with this structure:
{
  "band": 7,
  "feedback": "Your feedback here...",
  "band9_answer": "Your Band 9 model answer here..."
}

CueCard: "%s"
UserAnswer: "%s"`

	JobEvaluatePrompt = `You are a professional HR interviewer evaluating a candidate's spoken job interview answer.

Analyze the response for:
- Communication clarity
- Professional tone
- Relevance to the question
- Confidence and structure
- Vocabulary and fluency

Now, do three things:
1. Give a score from 1-10 (1 = poor, 10 = excellent).
2. Provide a short, 1-2 line feedback on how the answer can be improved.
3. Write a Good Response (ideal model answer) that sounds confident, natural, and professionally spoken.

Format your response strictly in JSON:
{
  "score": <number>,
  "feedback": "<short feedback>",
  "good_response": "<model job interview answer>"
}

Question: "%s"
User Answer: "%s"`

	SpeakingEvaluatePrompt = `You are an IELTS Speaking Examiner and Communication Skills Coach.

Evaluate the user's spoken answer based on:
- Fluency and coherence
- Pronunciation clarity
- Grammar and vocabulary range
- Relevance and natural tone
- Ability to express ideas clearly

Now do three things:
1. Give a score from 1-10 (1 = very poor, 10 = excellent fluency and clarity)
2. Provide a short 1-2 line feedback suggesting improvement.
3. Write a Good Response, a natural, fluent, band 9-level answer for the same question.

Return ONLY valid JSON in this format:
{
  "score": <number>,
  "feedback": "<short feedback>",
  "good_response": "<model fluent speaking answer>"
}

Question: "%s"
User Answer: "%s"`

	CueCardPrefix = "Describe"
)
