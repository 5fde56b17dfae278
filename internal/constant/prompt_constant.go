package constant

// System prompt guideline blocks for the three chat modes. The prompt builder
// fills in topic, mindmap and retrieved context around these.

const NormalChatGuidelines = `Guidelines:
- Give concise, relevant answers
- Reference specific details from the provided information
- Avoid unrelated topics
- If information is insufficient, acknowledge limitations clearly`

const QuizChatGuidelines = `Guidelines:
- Create clear, focused questions about the topic
- Provide constructive feedback on user responses
- Vary question types (multiple choice, open-ended, scenario-based)
- Stay within the topic scope
- Give helpful explanations for correct answers`

const DeepdiveChatGuidelines = `You have access to a web search tool that you should use when:
- Current information is needed (recent developments, latest research, current events)
- The provided documents lack sufficient detail on important aspects
- Verification of facts or claims is required
- Additional context would significantly enhance the analysis

Guidelines:
- Provide comprehensive, well-structured analysis
- Use web search to supplement information when necessary
- Cross-reference multiple sources for accuracy
- Present both overview and detailed insights
- Include recent developments and current context when relevant
- Cite sources when using web search results`

// MindmapSchemaSample is embedded in the generation prompt so the model emits
// the exact node shape the parser expects.
const MindmapSchemaSample = `{
    "title": "Mindmap Title",
    "description": "Mindmap Description",
    "children": [
        {
            "title": "Subject Title",
            "description": "Subject Description",
            "children": [
                {
                    "title": "Subject Title",
                    "description": "Subject Description",
                    "children": []
                }
            ]
        }
    ]
}`

const MindmapSystemPrompt = `You are a helpful assistant that can generate mindmaps from long documents. You will be given a document and you will need to generate a mindmap about it.
The mindmap should have nodes that are related to the document, each with a title and a description. You will just generate the mindmap, you will not generate any other text.
The mindmap must be in the following JSON format:
%s`

const MindmapUserPrompt = `Generate a mindmap about the following document: %s`
