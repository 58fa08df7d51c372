package assist

const summarizeSystemPrompt = `You summarize personal notes.
Summarize the note the user sends in a few concise bullet points that capture its key ideas.
Respond only with a JSON object of the form {"summary": "<text>"}.`

const suggestTagsSystemPrompt = `You are a tag suggestion assistant. Given the content of a note, you suggest relevant tags.
Suggest short lowercase tags that would help find the note later. Give each tag a relevance score between 0 and 1.
You MUST call the isTagRelevant tool for every candidate tag and only include tags the tool reports as relevant.
Respond only with a JSON object of the form {"tags": [{"tag": "<tag>", "relevanceScore": <number>}]}.`

const isTagRelevantToolName = "isTagRelevant"

const isTagRelevantToolDescription = "Determines whether a tag is relevant to the note content."
