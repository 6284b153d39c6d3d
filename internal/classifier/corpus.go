package classifier

// Training corpus for the statistical layer. Small and fixed; the rule layer
// carries most of the weight.
var (
	defaultScamCorpus = []string{
		"Your bank account is locked due to suspicious activity.",
		"Click here to claim your lottery prize now!",
		"Urgent: Update your KY to avoid account handling charges.",
		"Verify your identity immediately or face legal action.",
		"Congratulations! You won a $1000 gift card.",
		"IRS detected tax fraud. Call us back immediately.",
		"Hi grandma, I'm in trouble and need money strictly.",
		"Family emergency, please send cash via Western Union.",
	}
	defaultSafeCorpus = []string{
		"Hey, are we still meeting for lunch today?",
		"Your appointment is confirmed for tomorrow at 2 PM.",
		"Happy birthday! Hope you have a great day.",
		"Can you pick up some milk on your way home?",
		"The package has been delivered to your front door.",
		"Reminder: Take your medication after dinner.",
		"Call me when you get a chance.",
		"Your OTP for login is 123456. Do not share it.",
	}
)
