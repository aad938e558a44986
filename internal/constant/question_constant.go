package constant

const (
	ModeIELTS    = "ielts"
	ModeJob      = "job"
	ModeSpeaking = "speaking"

	FallbackKeyGeneral = "general"

	IELTSPart1Count      = 5
	IELTSPart2Count      = 1
	IELTSPart3Count      = 3
	JobQuestionCount     = 10
	SpeakingQuestionsMin = 10
	SpeakingQuestionsMax = 15
)

// IELTSCueCards is the fixed Part 2 pool. One is drawn per generated set.
var IELTSCueCards = []string{
	"Describe an interesting traditional story",
	"Describe a successful sportsperson you admire",
	"Describe a talk you gave to a group of people",
	"Describe a good habit your friend has, and you want to develop",
	"Describe a time you saw something interesting on social media",
	"Describe a time when you told your friend an important truth",
	"Describe the time when you first talked in a foreign language",
	"Describe a book you read that you found useful",
	"Describe a time when someone apologized to you",
	"Describe an occasion when you lost your way",
	"Describe a time when you saw something in the sky (e.g. flying kites, birds, sunset, etc.)",
	"Describe a place you went to and an outdoor activity you did there",
	"Describe someone else's room you enjoy spending time in",
	"Describe a singer whose music/songs you like",
	"Describe a piece of technology you own that you feel is difficult to use",
	"Describe a time when the electricity suddenly went off",
	"Describe an exciting activity you have tried for the first time",
	"Describe an important decision made with the help of other people",
	"Describe a great dinner you and your friends or family members enjoyed",
	"Describe a friend of yours who is good at music/singing",
}

var IELTSFallbackPart1 = []string{
	"What do you do for work or study?",
	"How do you usually spend your weekends?",
	"Do you prefer to travel alone or with others?",
	"What kind of food do you enjoy?",
	"Tell me about a hobby you have.",
}

var IELTSFallbackPart3 = []string{
	"How do people in your country typically plan holidays?",
	"What are the advantages and disadvantages of traveling alone?",
	"How has tourism changed in recent years?",
}

// JobFallbacks is keyed by the lowercased, trimmed field name.
var JobFallbacks = map[string][]string{
	"general": {
		"Tell me about yourself.",
		"What are your strengths and weaknesses?",
		"Why do you want to work here?",
		"Describe a challenge you faced and how you handled it.",
		"How do you handle stress or pressure?",
		"What motivates you in your career?",
		"Where do you see yourself in five years?",
		"How do you prioritize your work?",
		"Describe a time you worked in a team.",
		"Why should we hire you?",
	},
	"engineering": {
		"Can you explain a technical project you worked on?",
		"What tools or technologies are you most comfortable with?",
		"How do you approach solving complex problems?",
		"Describe a time you faced an engineering challenge and overcame it.",
		"How do you ensure quality and safety in your projects?",
		"What new technology excites you in your field?",
		"How do you handle project deadlines under pressure?",
		"Explain a design improvement you made recently.",
		"How do you collaborate with non-technical teams?",
		"What's the most innovative project you've contributed to?",
	},
	"marketing": {
		"What's your process for planning a marketing campaign?",
		"How do you measure campaign success?",
		"Describe a campaign that didn't go as planned and what you learned.",
		"How do you handle negative feedback from clients?",
		"What marketing tools or platforms do you use?",
		"How has social media changed marketing strategies?",
		"Tell me about a time you worked under a tight deadline.",
		"How do you stay updated on market trends?",
		"What's your favorite ad campaign and why?",
		"What's the biggest challenge in reaching Gen Z consumers?",
	},
	"teaching": {
		"What inspired you to become a teacher?",
		"How do you handle disruptive students?",
		"Describe your teaching style.",
		"How do you make your lessons engaging?",
		"Tell me about a memorable student you've taught.",
		"What role does technology play in your classroom?",
		"How do you manage classroom diversity?",
		"How do you assess student learning effectively?",
		"What are your biggest challenges as a teacher?",
		"How do you handle feedback from parents?",
	},
}

// SpeakingFallbacks is keyed by the lowercased, trimmed topic.
var SpeakingFallbacks = map[string][]string{
	"travel": {
		"Do you like traveling? Why or why not?",
		"What is your favorite travel destination?",
		"Have you ever traveled alone?",
		"What are some advantages of traveling?",
		"How do you usually plan your trips?",
		"Do you prefer mountains or beaches? Why?",
		"What is the most memorable trip you've taken?",
		"How do you prepare before traveling to a new country?",
		"Do you enjoy trying new food while traveling?",
		"What place would you like to visit in the future?",
	},
	"technology": {
		"How has technology changed your daily life?",
		"Do you think people use mobile phones too much?",
		"What's your favorite piece of technology?",
		"Do you think AI will replace human jobs?",
		"How has the internet changed education?",
		"What are the advantages and disadvantages of technology?",
		"Would you prefer reading a printed book or an e-book?",
		"How do you use technology in your studies or work?",
		"Do you think technology brings people closer or farther apart?",
		"How do you stay safe online?",
	},
	"environment": {
		"What are the main environmental problems today?",
		"Do you think individuals can help protect the environment?",
		"How do you personally reduce waste or pollution?",
		"What is your opinion on electric vehicles?",
		"Do you recycle? Why or why not?",
		"What can schools do to promote environmental awareness?",
		"Should governments ban plastic bags?",
		"How can we encourage people to use public transport?",
		"What environmental issues concern you most?",
		"How can future generations live more sustainably?",
	},
	"general": {
		"Can you describe your favorite hobby?",
		"What do you do in your free time?",
		"Do you prefer spending time alone or with friends?",
		"What kind of movies or music do you enjoy?",
		"Who is your role model and why?",
		"Do you enjoy reading books? Why or why not?",
		"How do you stay motivated every day?",
		"Do you prefer living in a city or countryside?",
		"How do you handle stress in your daily life?",
		"What's a goal you want to achieve this year?",
	},
}
