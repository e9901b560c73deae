package agent

import (
	"encoding/json"
	"fmt"

	"github.com/brandscope/brandscope/internal/core"
)

const evaluationSystemPrompt = "You are an AI assistant specialized in brand name evaluation. " +
	"Provide analysis strictly in the requested JSON format."

const qaSystemPrompt = "You are a helpful AI assistant answering follow-up questions about a " +
	"brand analysis report based only on the provided context. Be concise."

const evaluationPromptTemplate = `**Brand Name Evaluation Request**

**Brand Name:** %s

**Market Research Summary:**
Please evaluate the brand name '%s' based on the following market research data. Consider aspects like:
1. **Linguistic Qualities:** Is it easy to pronounce, spell, and remember? Does it sound appealing? Any potential negative connotations (globally or culturally)?
2. **Memorability & Distinctiveness:** How memorable and unique is the name itself? How does its distinctiveness compare considering the potential conflicts found in the research data?
3. **Relevance:** Does the name hint at the potential product/service category or target audience? Is it abstract or descriptive? (State assumptions if made).
4. **Availability Issues:** Briefly summarize the potential conflicts found in web search, social media, domains, and trademarks based *only* on the provided data. Assess the likely severity (e.g., high conflict if exact .com and social handles taken, low if only obscure mentions).
5. **Overall Potential Score:** Provide an overall potential score from 1 (very poor) to 10 (excellent), considering all factors, especially availability.

**Research Data:**
` + "```json\n%s\n```" + `
Note: 'potentially_available' domain status means it might be available but requires manual verification.
Note: Trademark check via web search is basic; 'potential_conflict_found_on_site' requires deeper investigation.

**Evaluation Output Format:**
Provide your evaluation strictly in JSON format with the following keys ONLY:
- "linguistic_analysis" (string: detailed analysis)
- "memorability_distinctiveness" (string: analysis)
- "relevance" (string: analysis, state assumptions if made)
- "availability_summary" (string: summary of potential issues based on data and severity assessment)
- "overall_score" (integer: 1-10)

**JSON Evaluation Output:**`

const qaPromptTemplate = `**Context:**
You are assisting a user who received an initial analysis for the brand name '%s'.
The key findings from the analysis are summarized below:
` + "```json\n%s\n```" + `

**User's Follow-up Question:**
%s

**Task:**
Answer the user's question.
- If the question asks for information *directly present* in the provided context data (e.g., "What was the .com domain status?"), answer based *only* on that context.
- If the question asks for *creative brainstorming* or *suggestions* related to the analyzed brand (e.g., "Suggest alternative names", "What are some tagline ideas?"), use the context as background inspiration and provide a few relevant ideas.
- If the context doesn't contain the information to answer a factual question, clearly state that the information isn't available in the report data.
- Do not perform new searches or access external information.
- Keep your answer concise and helpful.

**Answer:**`

func evaluationPrompt(brandName string, record *core.ResearchRecord) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(evaluationPromptTemplate, brandName, brandName, data), nil
}

func qaPrompt(question string, condensed *QAContext) (string, error) {
	data, err := json.MarshalIndent(condensed, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(qaPromptTemplate, condensed.BrandName, data, question), nil
}
