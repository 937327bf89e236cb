package constant

// ChatPromptTemplate grounds the completion model on the extracted PDF text.
// Arguments: document text, user question.
const ChatPromptTemplate = `You are a helpful assistant that answers questions about a PDF document.
Use ONLY the document content below to answer. If the answer is not in the
document, say so instead of inventing one.

--- DOCUMENT START ---
%s
--- DOCUMENT END ---

Question: %s`
