package openai

// analystSystemPrompt frames every completion request. The section reminder
// matters: without it the model occasionally drops required report sections
// on long contexts.
const analystSystemPrompt = "You are a helpful assistant specializing in" +
	" competitor analysis and strategic business consulting." +
	" Always include all the requested sections in your analysis."
